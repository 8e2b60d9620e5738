package render

import (
	"bytes"
	"io"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// Page contains everything needed to render a complete HTML document.
type Page struct {
	// Title is the document title.
	Title string

	// Lang is the lang attribute of the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Head holds extra nodes appended to <head> (stylesheets, meta tags).
	Head []*hiccup.Node

	// Body is the page content placed inside <body>.
	Body *hiccup.Node
}

// Tree returns the page as a single <html> tree.
func (p Page) Tree() *hiccup.Node {
	lang := p.Lang
	if lang == "" {
		lang = "en"
	}

	head := hiccup.El("head", nil,
		hiccup.El("meta", hiccup.A("charset", "utf-8")),
		hiccup.El("meta", hiccup.A("name", "viewport", "content", "width=device-width, initial-scale=1")),
	)
	if p.Title != "" {
		head.Children = append(head.Children, hiccup.El("title", nil, hiccup.Text(p.Title)))
	}
	head.Children = append(head.Children, p.Head...)

	return hiccup.El("html", hiccup.A("lang", lang),
		head,
		hiccup.El("body", nil, p.Body),
	)
}

// RenderPage renders a complete HTML document to w. Void elements are
// always rendered without closing tags in documents.
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	if page.Body == nil {
		return hiccup.Malformed("/", "page has no body")
	}

	cfg := r.config
	cfg.VoidElements = true
	doc := &Renderer{config: cfg}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	if err := doc.renderNode(&buf, page.Tree(), "/", 1); err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err := buf.WriteTo(w)
	return err
}

// PageString renders a complete HTML document to a string.
func (r *Renderer) PageString(page Page) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}
