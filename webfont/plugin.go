// Package webfont is a bundle plugin that downloads web fonts referenced by font-service stylesheets, such as Google Fonts, and emits the font files together with a rewritten stylesheet.
package webfont

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	"golang.org/x/sync/errgroup"

	"github.com/tdewolff/wfdl/bundle"
)

// Defaults for Options.
const (
	DefaultAssetsSubfolder = "webfonts"
	DefaultCSSFileName     = "webfonts.css"
	DefaultConcurrency     = 8
)

// Options configures the plugin.
type Options struct {
	AssetsSubfolder  string // folder for the font files, relative to the output directory
	InjectAsStyleTag bool   // put the CSS in a <style> tag of the HTML shell instead of a separate file
	SubsetsAllowed   []string
	MinifyCSS        *bool // nil means true
	CSSFileName      string
	Client           *http.Client
	UserAgent        string
	Concurrency      int
}

// Plugin downloads the fonts of one or more stylesheets.
type Plugin struct {
	urls []string
	opts Options

	css     string
	cssFile string
}

// New returns a plugin for the given stylesheet URLs.
func New(urls []string, opts Options) *Plugin {
	if opts.AssetsSubfolder == "" {
		opts.AssetsSubfolder = DefaultAssetsSubfolder
	}
	if opts.CSSFileName == "" {
		opts.CSSFileName = DefaultCSSFileName
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Plugin{
		urls: urls,
		opts: opts,
	}
}

// Name implements bundle.Plugin.
func (p *Plugin) Name() string {
	return "webfont-download"
}

type stylesheet struct {
	base  *url.URL
	sheet *Stylesheet
}

type download struct {
	url  string
	path string
	data []byte
}

// BuildStart fetches the stylesheets and their fonts, and emits the fonts and the rewritten stylesheet.
func (p *Plugin) BuildStart(ctx context.Context, bctx *bundle.Context) error {
	if len(p.urls) == 0 {
		return fmt.Errorf("no font URLs")
	}

	sheets := []stylesheet{}
	downloads := []*download{}
	index := map[string]*download{}
	for _, rawURL := range p.urls {
		base, err := url.Parse(rawURL)
		if err != nil {
			return err
		}
		b, err := p.get(ctx, rawURL, "text/css,*/*;q=0.1")
		if err != nil {
			return err
		}
		sheet, err := ParseStylesheet(b)
		if err != nil {
			return fmt.Errorf("%v: %w", rawURL, err)
		}
		sheet.Filter(p.opts.SubsetsAllowed)
		if len(sheet.FontFaces()) == 0 {
			bctx.Warnf("%v: no font faces left", rawURL)
		}

		for _, ref := range sheet.URLs() {
			u, err := base.Parse(ref)
			if err != nil {
				return fmt.Errorf("%v: %w", rawURL, err)
			}
			if _, ok := index[u.String()]; !ok {
				d := &download{url: u.String(), path: u.Path}
				index[d.url] = d
				downloads = append(downloads, d)
			}
		}
		sheets = append(sheets, stylesheet{base, sheet})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for _, d := range downloads {
		g.Go(func() error {
			var err error
			d.data, err = p.get(gctx, d.url, "font/woff2,font/*;q=0.9,*/*;q=0.8")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cssDir := "."
	if !p.opts.InjectAsStyleTag {
		cssDir = path.Dir(bctx.AssetFileName(p.opts.CSSFileName, nil))
	}

	namer := newFileNamer()
	emitted := map[string]string{} // URL => path relative to the stylesheet
	for _, d := range downloads {
		fileName, err := bctx.EmitFile(bundle.EmittedFile{
			FileName: path.Join(p.opts.AssetsSubfolder, namer.name(d.url, d.path, d.data)),
			Source:   d.data,
		})
		if err != nil {
			return err
		}
		emitted[d.url] = relPath(cssDir, fileName)

		if info, err := inspectFont(d.data); err != nil {
			bctx.Warnf("%v: %v", fileName, err)
		} else {
			bctx.Infof("%v: %v, %d glyphs", fileName, info.Family, info.NumGlyphs)
		}
	}

	sb := &strings.Builder{}
	for _, s := range sheets {
		s.sheet.Rewrite(func(ref string) (string, bool) {
			u, err := s.base.Parse(ref)
			if err != nil {
				return "", false
			}
			rel, ok := emitted[u.String()]
			return rel, ok
		})
		sb.WriteString(s.sheet.String())
	}

	p.css = sb.String()
	if p.opts.MinifyCSS == nil || *p.opts.MinifyCSS {
		var err error
		if p.css, err = minifyCSS(p.css); err != nil {
			return fmt.Errorf("minify: %w", err)
		}
	}

	if !p.opts.InjectAsStyleTag {
		var err error
		if p.cssFile, err = bctx.EmitFile(bundle.EmittedFile{Name: p.opts.CSSFileName, Source: []byte(p.css)}); err != nil {
			return err
		}
	}
	return nil
}

// TransformIndexHTML links the stylesheet from the HTML shell, or inlines it.
func (p *Plugin) TransformIndexHTML(_ context.Context, doc string) (string, error) {
	if p.opts.InjectAsStyleTag {
		return injectStyle(doc, p.css)
	} else if p.cssFile != "" {
		return injectLink(doc, "/"+p.cssFile)
	}
	return doc, nil
}

// Options returns the options with defaults filled in.
func (p *Plugin) Options() Options {
	return p.opts
}

// CSS returns the generated stylesheet after BuildStart.
func (p *Plugin) CSS() string {
	return p.css
}

func minifyCSS(s string) (string, error) {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	return m.String("text/css", s)
}

// relPath returns the slash-separated path of target relative to dir, both relative to the output directory.
func relPath(dir, target string) string {
	if dir == "." || dir == "" {
		return target
	}
	from := strings.Split(dir, "/")
	to := strings.Split(target, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	return strings.Repeat("../", len(from)-i) + strings.Join(to[i:], "/")
}
