package webfont

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/tdewolff/test"

	"github.com/tdewolff/wfdl/bundle"
)

var fakeWOFF2 = append([]byte("wOF2"), make([]byte, 60)...)

type fontServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
}

func newFontServer(t *testing.T) *fontServer {
	s := &fontServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		css := `/* cyrillic */
@font-face {
  font-family: 'Test';
  src: url(` + s.URL + `/s/c.woff2) format('woff2');
}
/* latin */
@font-face {
  font-family: 'Test';
  src: url(/s/a.woff2) format('woff2'), url(` + s.URL + `/s/b) format('woff2');
}
`
		w.Header().Set("Content-Type", "text/css")
		if strings.Contains(r.Header.Get("Accept-Encoding"), "br") {
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(w)
			bw.Write([]byte(css))
			bw.Close()
			return
		}
		io.WriteString(w, css)
	})
	mux.HandleFunc("/s/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		s.mu.Unlock()

		if r.URL.Path == "/s/b" {
			w.Header().Set("Content-Encoding", "gzip")
			gw := gzip.NewWriter(w)
			gw.Write(fakeWOFF2)
			gw.Close()
			return
		}
		w.Write(fakeWOFF2)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *fontServer) requested(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req == path {
			return true
		}
	}
	return false
}

func quiet(t *testing.T) {
	info, warning := bundle.Info, bundle.Warning
	bundle.Info = log.New(io.Discard, "", 0)
	bundle.Warning = log.New(io.Discard, "", 0)
	t.Cleanup(func() {
		bundle.Info, bundle.Warning = info, warning
	})
}

func build(t *testing.T, p *Plugin) (string, error) {
	outDir := t.TempDir()
	err := bundle.Build(context.Background(), bundle.Config{
		Root:           t.TempDir(),
		OutDir:         outDir,
		AssetFileNames: "[name].[ext]",
		Plugins:        []bundle.Plugin{p},
		LogLevel:       bundle.LogWarn,
	})
	return outDir, err
}

func readFile(t *testing.T, name string) string {
	b, err := os.ReadFile(name)
	test.Error(t, err)
	return string(b)
}

func TestPlugin(t *testing.T) {
	quiet(t)
	s := newFontServer(t)

	p := New([]string{s.URL + "/css2?family=Test"}, Options{
		AssetsSubfolder: "types",
		SubsetsAllowed:  []string{"latin"},
		Client:          s.Client(),
	})
	outDir, err := build(t, p)
	test.Error(t, err)

	test.That(t, s.requested("/s/a.woff2"))
	test.That(t, s.requested("/s/b"))
	test.That(t, !s.requested("/s/c.woff2"), "filtered subset must not be downloaded")

	css := readFile(t, filepath.Join(outDir, "webfonts.css"))
	test.That(t, strings.Contains(css, "url(types/a.woff2)"), css)
	test.That(t, strings.Contains(css, "url(types/b.woff2)"), css)
	test.That(t, !strings.Contains(css, "c.woff2"), css)
	test.That(t, !strings.Contains(css, "/*"), "minified by default: "+css)

	test.Bytes(t, []byte(readFile(t, filepath.Join(outDir, "types", "a.woff2"))), fakeWOFF2)
	test.Bytes(t, []byte(readFile(t, filepath.Join(outDir, "types", "b.woff2"))), fakeWOFF2)

	html := readFile(t, filepath.Join(outDir, bundle.HTMLFileName))
	test.That(t, strings.Contains(html, `href="/webfonts.css"`), html)
}

func TestPluginNoMinify(t *testing.T) {
	quiet(t)
	s := newFontServer(t)

	minify := false
	p := New([]string{s.URL + "/css2"}, Options{
		AssetsSubfolder: "types",
		MinifyCSS:       &minify,
		Client:          s.Client(),
	})
	outDir, err := build(t, p)
	test.Error(t, err)

	css := readFile(t, filepath.Join(outDir, "webfonts.css"))
	test.That(t, strings.Contains(css, "/* cyrillic */\n@font-face {"), css)
	test.That(t, strings.Contains(css, "src: url(types/c.woff2) format('woff2');"), css)
	test.String(t, p.CSS(), css)
}

func TestPluginInjectAsStyleTag(t *testing.T) {
	quiet(t)
	s := newFontServer(t)

	p := New([]string{s.URL + "/css2"}, Options{
		InjectAsStyleTag: true,
		Client:           s.Client(),
	})
	outDir, err := build(t, p)
	test.Error(t, err)

	_, err = os.Stat(filepath.Join(outDir, DefaultCSSFileName))
	test.That(t, os.IsNotExist(err), "no stylesheet file when injecting")

	html := readFile(t, filepath.Join(outDir, bundle.HTMLFileName))
	test.That(t, strings.Contains(html, "<style>"), html)
	test.That(t, strings.Contains(html, "url(webfonts/a.woff2)"), html)
}

func TestPluginHTTPError(t *testing.T) {
	quiet(t)
	s := newFontServer(t)

	_, err := build(t, New([]string{s.URL + "/missing.css"}, Options{Client: s.Client()}))
	test.That(t, err != nil)
	test.That(t, strings.Contains(err.Error(), "404"), err.Error())
}

func TestPluginUnsupportedScheme(t *testing.T) {
	quiet(t)
	_, err := build(t, New([]string{"ftp://example.com/font.css"}, Options{}))
	test.That(t, err != nil)
	test.That(t, strings.Contains(err.Error(), "unsupported URL"), err.Error())
}

func TestFileNamer(t *testing.T) {
	n := newFileNamer()
	test.String(t, n.name("https://a/x/font.woff2", "/x/font.woff2", nil), "font.woff2")
	test.String(t, n.name("https://a/x/font.woff2", "/x/font.woff2", nil), "font.woff2")
	test.String(t, n.name("https://a/y/font.woff2", "/y/font.woff2", nil), "font-ff08bdf5.woff2")
	test.String(t, n.name("https://a/l/font", "/l/font", fakeWOFF2), "font-5bcf4d5b.woff2")

	n = newFileNamer()
	test.String(t, n.name("https://a/l/font", "/l/font", fakeWOFF2), "font.woff2")
	test.String(t, n.name("https://a/", "/", fakeWOFF2), "font-ab986404.woff2")
}

func TestRelPath(t *testing.T) {
	test.String(t, relPath(".", "types/a.woff2"), "types/a.woff2")
	test.String(t, relPath("assets", "types/a.woff2"), "../types/a.woff2")
	test.String(t, relPath("assets", "assets/types/a.woff2"), "types/a.woff2")
}

func TestInjectLink(t *testing.T) {
	doc, err := injectLink("<!doctype html><html><head><title>x</title></head><body></body></html>", "/webfonts.css")
	test.Error(t, err)
	test.String(t, doc, `<!DOCTYPE html><html><head><title>x</title><link rel="stylesheet" href="/webfonts.css"/></head><body></body></html>`)
}

func TestDecodeBody(t *testing.T) {
	buf := &bytes.Buffer{}
	bw := brotli.NewWriter(buf)
	bw.Write([]byte("body{}"))
	bw.Close()

	resp := &http.Response{Header: http.Header{"Content-Encoding": {"BR"}}, Body: io.NopCloser(buf)}
	r, err := decodeBody(resp)
	test.Error(t, err)
	b, err := io.ReadAll(r)
	test.Error(t, err)
	test.String(t, string(b), "body{}")

	resp = &http.Response{Header: http.Header{"Content-Encoding": {"zstd"}}, Body: io.NopCloser(&bytes.Buffer{})}
	_, err = decodeBody(resp)
	test.That(t, err != nil)
}
