package webfont

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/tdewolff/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

var mimetypeExt = map[string]string{
	"font/truetype": ".ttf",
	"font/opentype": ".otf",
	"font/woff":     ".woff",
	"font/woff2":    ".woff2",
	"font/eot":      ".eot",
}

// fontInfo is what we report about a downloaded font.
type fontInfo struct {
	Family    string
	NumGlyphs int
}

// inspectFont converts WOFF, WOFF2 and EOT to SFNT and reads the family name and glyph count.
func inspectFont(b []byte) (fontInfo, error) {
	b, err := font.ToSFNT(b)
	if err != nil {
		return fontInfo{}, err
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return fontInfo{}, err
	}
	family, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return fontInfo{}, err
	}
	return fontInfo{
		Family:    family,
		NumGlyphs: f.NumGlyphs(),
	}, nil
}

// fontExt returns the file extension for the font data, or an empty string if it is not recognized.
func fontExt(b []byte) string {
	mimetype, err := font.MediaType(b)
	if err != nil {
		return ""
	}
	return mimetypeExt[mimetype]
}

// fileNamer hands out unique file names for downloaded fonts.
type fileNamer struct {
	used map[string]string // file name => URL
}

func newFileNamer() *fileNamer {
	return &fileNamer{used: map[string]string{}}
}

// name derives the file name from the last path element of the URL, appending the sniffed extension if the URL has none. Different URLs with the same base name get a short hash of the URL appended.
func (n *fileNamer) name(rawURL, urlPath string, b []byte) string {
	base := path.Base(urlPath)
	if base == "." || base == "/" || base == "" {
		base = "font"
	}
	ext := path.Ext(base)
	if ext == "" {
		ext = fontExt(b)
		base += ext
	}

	name := base
	if prev, ok := n.used[name]; ok && prev != rawURL {
		sum := sha256.Sum256([]byte(rawURL))
		name = fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), hex.EncodeToString(sum[:])[:8], ext)
	}
	n.used[name] = rawURL
	return name
}
