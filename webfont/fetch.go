package webfont

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

// DefaultUserAgent is sent with every request. Font services pick the font format by user agent, and a current browser gets WOFF2.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// MaxResponseSize limits the decoded size of a single response.
var MaxResponseSize int64 = 32 * 1024 * 1024

func (p *Plugin) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL: %v", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := p.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return nil, fmt.Errorf("GET %v: %v", rawURL, resp.Status)
	}

	r, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("GET %v: %w", rawURL, err)
	}
	b, err := io.ReadAll(io.LimitReader(r, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("GET %v: %w", rawURL, err)
	} else if MaxResponseSize < int64(len(b)) {
		return nil, fmt.Errorf("GET %v: response exceeds %d bytes", rawURL, MaxResponseSize)
	}
	return b, nil
}

// decodeBody undoes the content encoding; setting Accept-Encoding ourselves disables the transparent gzip handling of net/http.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); encoding {
	case "", "identity":
		return resp.Body, nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	default:
		return nil, fmt.Errorf("unsupported content encoding: %v", encoding)
	}
}
