package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// attrValue returns the double-quoted value of the first name attribute
// in html. The renderer always double-quotes attribute values.
func attrValue(t *testing.T, html, name string) string {
	t.Helper()
	_, rest, ok := strings.Cut(html, " "+name+`="`)
	if !ok {
		t.Fatalf("no %s attribute in %q", name, html)
	}
	value, _, ok := strings.Cut(rest, `"`)
	if !ok {
		t.Fatalf("unterminated %s attribute in %q", name, html)
	}
	return value
}

func TestRenderPage(t *testing.T) {
	r := New(Config{})
	page := Page{
		Title: "Scores & Stats",
		Head: []*hiccup.Node{
			hiccup.El("link", hiccup.A("rel", "stylesheet", "href", "/app.css")),
		},
		Body: hiccup.Main(nil, hiccup.H1(nil, hiccup.Text("Hello"))),
	}

	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	if !strings.HasPrefix(html, "<!DOCTYPE html>\n<html lang=\"en\">") {
		t.Errorf("missing doctype/html prefix: %q", html)
	}
	if got := attrValue(t, html, "charset"); got != "utf-8" {
		t.Errorf("charset = %q, want utf-8", got)
	}
	if !strings.Contains(html, "<title>Scores &amp; Stats</title>") {
		t.Errorf("title not escaped: %q", html)
	}
	if !strings.Contains(html, `<link rel="stylesheet" href="/app.css"></head>`) {
		t.Errorf("extra head nodes missing or not void: %q", html)
	}
	if strings.Contains(html, "</meta>") {
		t.Errorf("meta should be rendered as void element: %q", html)
	}
	if !strings.HasSuffix(html, "<body><main><h1>Hello</h1></main></body></html>\n") {
		t.Errorf("unexpected body: %q", html)
	}
}

func TestRenderPageLang(t *testing.T) {
	html, err := New(Config{}).PageString(Page{Lang: "fr", Body: hiccup.Text("Bonjour")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := attrValue(t, html, "lang"); got != "fr" {
		t.Errorf("lang = %q, want fr", got)
	}
	if strings.Contains(html, "<title>") {
		t.Errorf("empty title should be omitted: %q", html)
	}
}

func TestRenderPageErrors(t *testing.T) {
	r := New(Config{})

	var buf bytes.Buffer
	err := r.RenderPage(&buf, Page{Title: "x"})
	var mne *MalformedNodeError
	if !errors.As(err, &mne) {
		t.Fatalf("missing body should be malformed, got %v", err)
	}

	err = r.RenderPage(&buf, Page{Body: hiccup.Div(nil, nil, hiccup.El("", nil))})
	if !errors.As(err, &mne) {
		t.Fatalf("bad body should be malformed, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("failed page wrote %q", buf.String())
	}
}
