package hiccup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML fragment into Hiccup nodes, as if it appeared
// inside <body>. Comments and doctypes are dropped. Attributes with an
// empty value become boolean true attributes, so they render bare.
func ParseHTML(r io.Reader) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	nodes := make([]*Node, 0, len(parsed))
	for _, n := range parsed {
		if c := fromHTMLNode(n); c != nil {
			nodes = append(nodes, c)
		}
	}
	return nodes, nil
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(s string) ([]*Node, error) {
	return ParseHTML(strings.NewReader(s))
}

func fromHTMLNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		attrs := make(Attrs, 0, len(n.Attr))
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			if _, dup := attrs.Get(key); dup {
				continue
			}
			var val any = a.Val
			if a.Val == "" {
				val = true
			}
			attrs = append(attrs, Attr{Key: key, Value: val})
		}
		el := El(n.Data, attrs)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTMLNode(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		return nil
	}
}
