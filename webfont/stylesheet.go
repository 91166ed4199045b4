package webfont

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/text/cases"
)

// Declaration is a single property of a @font-face rule.
type Declaration struct {
	Property string
	Values   []css.Token
}

// FontFace is a @font-face rule. Subset is taken from the comment preceding the rule, as font services label each face with the character subset it covers, e.g. /* latin-ext */.
type FontFace struct {
	Subset       string
	Declarations []Declaration
}

// Get returns the value of property as written, or an empty string.
func (face *FontFace) Get(property string) string {
	for _, decl := range face.Declarations {
		if decl.Property == property {
			return tokensString(decl.Values)
		}
	}
	return ""
}

type item struct {
	face *FontFace
	raw  string
}

// Stylesheet is a parsed font stylesheet. Rules other than @font-face are kept verbatim.
type Stylesheet struct {
	items []item
}

// ParseStylesheet parses a font stylesheet.
func ParseStylesheet(b []byte) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputBytes(b), false)

	raw := &strings.Builder{}
	flush := func() {
		if raw.Len() != 0 {
			sheet.items = append(sheet.items, item{raw: raw.String()})
			raw.Reset()
		}
	}

	subset := ""
	var face *FontFace
	depth := 0 // nesting of verbatim at-rules and rulesets
	for {
		gt, tt, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				flush()
				return sheet, nil
			} else if tt == css.ErrorToken {
				return nil, p.Err()
			}
			// invalid declaration, the parser skipped to its end
		case css.CommentGrammar:
			subset = commentText(data)
		case css.BeginAtRuleGrammar:
			if face == nil && depth == 0 && bytes.Equal(data, []byte("@font-face")) {
				flush()
				face = &FontFace{Subset: subset}
			} else {
				raw.Write(data)
				writeValues(raw, p.Values(), true)
				raw.WriteByte('{')
				depth++
			}
			subset = ""
		case css.EndAtRuleGrammar:
			if face != nil && depth == 0 {
				sheet.items = append(sheet.items, item{face: face})
				face = nil
			} else {
				raw.WriteByte('}')
				depth--
			}
		case css.AtRuleGrammar:
			raw.Write(data)
			writeValues(raw, p.Values(), true)
			raw.WriteByte(';')
			subset = ""
		case css.BeginRulesetGrammar:
			writeValues(raw, p.Values(), false)
			raw.WriteByte('{')
			depth++
			subset = ""
		case css.EndRulesetGrammar:
			raw.WriteByte('}')
			depth--
		case css.DeclarationGrammar:
			if face != nil && depth == 0 {
				values := make([]css.Token, len(p.Values()))
				for i, val := range p.Values() {
					values[i] = css.Token{TokenType: val.TokenType, Data: parse.Copy(val.Data)}
				}
				face.Declarations = append(face.Declarations, Declaration{
					Property: string(data),
					Values:   values,
				})
			} else {
				raw.Write(data)
				raw.WriteByte(':')
				writeValues(raw, p.Values(), false)
				raw.WriteByte(';')
			}
		case css.CustomPropertyGrammar:
			raw.Write(data)
			raw.WriteByte(':')
			writeValues(raw, p.Values(), false)
			raw.WriteByte(';')
		default:
			raw.Write(data)
		}
	}
}

func commentText(b []byte) string {
	s := strings.TrimPrefix(string(b), "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

func writeValues(w *strings.Builder, values []css.Token, leadingSpace bool) {
	if leadingSpace && len(values) != 0 && values[0].TokenType != css.WhitespaceToken {
		w.WriteByte(' ')
	}
	for _, val := range values {
		w.Write(val.Data)
	}
}

func tokensString(values []css.Token) string {
	sb := &strings.Builder{}
	writeValues(sb, values, false)
	return strings.TrimSpace(sb.String())
}

// FontFaces returns the @font-face rules in order.
func (sheet *Stylesheet) FontFaces() []*FontFace {
	faces := []*FontFace{}
	for _, it := range sheet.items {
		if it.face != nil {
			faces = append(faces, it.face)
		}
	}
	return faces
}

// Filter removes the font faces whose subset is not allowed. Subset names are compared case-insensitively and faces without a subset label are always kept. An empty list allows everything.
func (sheet *Stylesheet) Filter(allowed []string) {
	if len(allowed) == 0 {
		return
	}
	fold := cases.Fold()
	allow := map[string]bool{}
	for _, subset := range allowed {
		allow[fold.String(strings.TrimSpace(subset))] = true
	}

	items := sheet.items[:0]
	for _, it := range sheet.items {
		if it.face == nil || it.face.Subset == "" || allow[fold.String(it.face.Subset)] {
			items = append(items, it)
		}
	}
	sheet.items = items
}

// URLs returns the unique url() references of all font faces in order of appearance.
func (sheet *Stylesheet) URLs() []string {
	urls := []string{}
	seen := map[string]bool{}
	for _, face := range sheet.FontFaces() {
		for _, decl := range face.Declarations {
			for _, val := range decl.Values {
				if val.TokenType != css.URLToken {
					continue
				}
				if u := unquoteURL(val.Data); u != "" && !seen[u] {
					seen[u] = true
					urls = append(urls, u)
				}
			}
		}
	}
	return urls
}

// Rewrite replaces every url() reference in the font faces by the result of f. References for which f returns false are left unchanged.
func (sheet *Stylesheet) Rewrite(f func(string) (string, bool)) {
	for _, face := range sheet.FontFaces() {
		for _, decl := range face.Declarations {
			for i, val := range decl.Values {
				if val.TokenType != css.URLToken {
					continue
				}
				if u, ok := f(unquoteURL(val.Data)); ok {
					decl.Values[i].Data = quoteURL(u)
				}
			}
		}
	}
}

// String serializes the stylesheet.
func (sheet *Stylesheet) String() string {
	sb := &strings.Builder{}
	for _, it := range sheet.items {
		if it.face == nil {
			sb.WriteString(it.raw)
			sb.WriteByte('\n')
			continue
		}
		if it.face.Subset != "" {
			fmt.Fprintf(sb, "/* %s */\n", it.face.Subset)
		}
		sb.WriteString("@font-face {\n")
		for _, decl := range it.face.Declarations {
			fmt.Fprintf(sb, "  %s: %s;\n", decl.Property, tokensString(decl.Values))
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

// unquoteURL extracts the address from a url() token.
func unquoteURL(b []byte) string {
	s := string(b)
	if 4 <= len(s) && strings.EqualFold(s[:4], "url(") {
		s = s[4:]
	}
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	if 2 <= len(s) && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}

func quoteURL(u string) []byte {
	if !strings.ContainsAny(u, " \t\n\"'()\\") {
		return []byte("url(" + u + ")")
	}
	return []byte("url(\"" + strings.ReplaceAll(u, "\"", "\\\"") + "\")")
}
