package webfont

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func injectLink(doc, href string) (string, error) {
	return appendToHead(doc, &html.Node{
		Type:     html.ElementNode,
		Data:     "link",
		DataAtom: atom.Link,
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	})
}

func injectStyle(doc, css string) (string, error) {
	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
	}
	style.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: css,
	})
	return appendToHead(doc, style)
}

func appendToHead(doc string, n *html.Node) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	head := findElement(root, atom.Head)
	if head == nil {
		return "", fmt.Errorf("HTML document has no head")
	}
	head.AppendChild(n)

	sb := &strings.Builder{}
	if err := html.Render(sb, root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
