package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"go.uber.org/goleak"
)

func TestRenderText(t *testing.T) {
	html, err := Render(hiccup.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html, err := Render(hiccup.Text(`<a href="x">Tom & Jerry</a>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&lt;/a&gt;"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
	for _, bad := range []string{"<", ">", `"`, "&lt;lt;", "&amp;lt;"} {
		if strings.Contains(html, bad) {
			t.Errorf("output %q should not contain %q", html, bad)
		}
	}
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "plain text",
			input: "Hello",
			want:  "Hello",
		},
		{
			name:  "simple tag",
			input: []any{"p", map[string]any{}, "Hello"},
			want:  "<p>Hello</p>",
		},
		{
			name:  "tag with attributes",
			input: []any{"div", map[string]any{"class": "message"}, "Hello"},
			want:  `<div class="message">Hello</div>`,
		},
		{
			name: "nested siblings",
			input: []any{"div", map[string]any{},
				[]any{"span", map[string]any{}, "x"},
				[]any{"span", map[string]any{}, "y"},
			},
			want: "<div><span>x</span><span>y</span></div>",
		},
		{
			name: "nested with container class",
			input: []any{"div", map[string]any{"class": "container"},
				[]any{"p", map[string]any{}, "Hello"},
				[]any{"span", map[string]any{}, "World"},
			},
			want: `<div class="container"><p>Hello</p><span>World</span></div>`,
		},
		{
			name:  "script text escaped",
			input: []any{"p", map[string]any{}, "<script>alert('xss')</script>"},
			want:  "<p>&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;</p>",
		},
		{
			name:  "empty element keeps close tag",
			input: []any{"img", map[string]any{"src": "a.png"}},
			want:  `<img src="a.png"></img>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderValue(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"true renders bare", true, "<button disabled></button>"},
		{"false omitted", false, "<button></button>"},
		{"nil omitted", nil, "<button></button>"},
		{"string kept", "disabled", `<button disabled="disabled"></button>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(hiccup.Button(hiccup.A("disabled", tt.value)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderAttributeValues(t *testing.T) {
	node := hiccup.Input(hiccup.A(
		"name", "q",
		"maxlength", 40,
		"step", 0.5,
		"size", uint8(3),
		"data-n", "7",
		"title", "say \"hi\"\n<now> & 'then'",
		"required", true,
		"hidden", false,
	))

	got, err := Render(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<input name="q" maxlength="40" step="0.5" size="3" data-n="7" ` +
		`title="say &quot;hi&quot;&#10;&lt;now&gt; &amp; &#39;then&#39;" required></input>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderAttributeOrderPreserved(t *testing.T) {
	node := hiccup.Div(hiccup.A("z", "1", "a", "2", "m", "3"))
	got, err := Render(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<div z="1" a="2" m="3"></div>` {
		t.Errorf("attribute order changed: %q", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	build := func() *hiccup.Node {
		return hiccup.Section(hiccup.A("id", "s", "data-x", 1.25, "open", true),
			hiccup.H1(nil, hiccup.Text("Title & more")),
			hiccup.Ul(nil, hiccup.Map([]string{"a", "b", "c"}, func(s string) *hiccup.Node {
				return hiccup.Li(hiccup.A("class", s), hiccup.Text(s))
			})...),
		)
	}

	first, err := Render(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Render(build())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("render %d differs:\n%q\n%q", i, again, first)
		}
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	node := hiccup.Div(hiccup.A("class", "x"), hiccup.Text("a"), hiccup.Raw("<b>b</b>"))
	snapshot := hiccup.Div(hiccup.A("class", "x"), hiccup.Text("a"), hiccup.Raw("<b>b</b>"))

	if _, err := Render(node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !node.Equal(snapshot) {
		t.Error("Render mutated its input")
	}
}

func TestRenderMalformed(t *testing.T) {
	tests := []struct {
		name     string
		node     *hiccup.Node
		wantPath string
	}{
		{"nil root", nil, "/"},
		{"empty tag", &hiccup.Node{Kind: hiccup.KindElement}, "/"},
		{"bad tag", hiccup.El("di v", nil), "/"},
		{"unknown kind", &hiccup.Node{Kind: hiccup.Kind(9)}, "/"},
		{"nil child", &hiccup.Node{Kind: hiccup.KindElement, Tag: "div", Children: []*hiccup.Node{hiccup.Text("ok"), nil}}, "/1"},
		{"text with children", &hiccup.Node{Kind: hiccup.KindText, Children: []*hiccup.Node{hiccup.Text("x")}}, "/"},
		{"duplicate attribute", hiccup.Div(hiccup.Attrs{{Key: "id", Value: "a"}, {Key: "id", Value: "b"}}), "/"},
		{"unsupported attribute value", hiccup.Div(hiccup.A("data", []string{"x"})), "/"},
		{"attribute name breaks tag", hiccup.Div(hiccup.A(`x"><script`, "1")), "/"},
		{"deep bad node", hiccup.Div(nil, hiccup.P(nil, hiccup.Text("ok"), hiccup.El("", nil))), "/0/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := Render(tt.node)
			if err == nil {
				t.Fatalf("expected error, got %q", html)
			}
			if html != "" {
				t.Errorf("expected no partial output, got %q", html)
			}
			var mne *MalformedNodeError
			if !errors.As(err, &mne) {
				t.Fatalf("error %v is not a MalformedNodeError", err)
			}
			if mne.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", mne.Path, tt.wantPath)
			}
		})
	}
}

func TestRenderValueMissingAttrs(t *testing.T) {
	_, err := RenderValue([]any{"div"})
	var mne *MalformedNodeError
	if !errors.As(err, &mne) {
		t.Fatalf("expected MalformedNodeError, got %v", err)
	}
}

func TestRenderToWriterIsAtomic(t *testing.T) {
	var buf bytes.Buffer
	node := hiccup.Div(nil, hiccup.P(nil, hiccup.Text("written?")), &hiccup.Node{Kind: hiccup.Kind(42)})

	if err := New(Config{}).RenderToWriter(&buf, node); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("writer received partial output %q", buf.String())
	}

	if err := New(Config{}).RenderToWriter(&buf, hiccup.P(nil, hiccup.Text("ok"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "<p>ok</p>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRenderMaxDepth(t *testing.T) {
	nest := func(levels int) *hiccup.Node {
		node := hiccup.Text("leaf")
		for i := 0; i < levels; i++ {
			node = hiccup.Div(nil, node)
		}
		return node
	}

	r := New(Config{MaxDepth: 10})
	// 9 divs plus the text leaf is exactly 10 levels.
	if _, err := r.Render(nest(9)); err != nil {
		t.Fatalf("10 levels should render: %v", err)
	}
	_, err := r.Render(nest(10))
	var mne *MalformedNodeError
	if !errors.As(err, &mne) || !strings.Contains(mne.Reason, "deeper than 10") {
		t.Fatalf("expected depth error, got %v", err)
	}

	if New(Config{}).Config().MaxDepth != hiccup.DefaultMaxDepth {
		t.Errorf("default MaxDepth = %d, want %d", New(Config{}).Config().MaxDepth, hiccup.DefaultMaxDepth)
	}
}

func TestRenderValueUsesConfiguredDepth(t *testing.T) {
	nest := func(levels int) any {
		var v any = "leaf"
		for i := 0; i < levels; i++ {
			v = []any{"div", map[string]any{}, v}
		}
		return v
	}

	tests := []struct {
		name     string
		maxDepth int
		levels   int
		wantErr  bool
	}{
		{"raised limit accepts", 1000, 600, false},
		{"default limit rejects", 0, 600, true},
		{"lowered limit rejects", 10, 10, true},
		{"lowered limit accepts", 10, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{MaxDepth: tt.maxDepth})
			_, valueErr := r.RenderValue(nest(tt.levels))

			node, err := hiccup.FromValueDepth(nest(tt.levels), 1<<20)
			if err != nil {
				t.Fatalf("FromValueDepth: %v", err)
			}
			_, nodeErr := r.Render(node)

			if (valueErr != nil) != tt.wantErr || (nodeErr != nil) != tt.wantErr {
				t.Errorf("RenderValue err = %v, Render err = %v, wantErr %v", valueErr, nodeErr, tt.wantErr)
			}
		})
	}
}

func TestRenderVoidElements(t *testing.T) {
	r := New(Config{VoidElements: true})

	tests := []struct {
		name string
		node *hiccup.Node
		want string
	}{
		{
			name: "input",
			node: hiccup.Input(hiccup.A("type", "text", "name", "email")),
			want: `<input type="text" name="email">`,
		},
		{
			name: "br",
			node: hiccup.El("br", nil),
			want: "<br>",
		},
		{
			name: "non-void element unaffected",
			node: hiccup.Div(nil),
			want: "<div></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	_, err := r.Render(hiccup.El("img", nil, hiccup.Text("x")))
	var mne *MalformedNodeError
	if !errors.As(err, &mne) {
		t.Errorf("children on void element should be malformed, got %v", err)
	}
}

func TestRenderRaw(t *testing.T) {
	node := hiccup.Div(nil, hiccup.Raw(`<b onclick="evil()">bold</b><script>x()</script>`))

	got, err := Render(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<div><b onclick="evil()">bold</b><script>x()</script></div>` {
		t.Errorf("raw should be verbatim, got %q", got)
	}

	sanitized, err := New(Config{RawPolicy: bluemonday.UGCPolicy()}).Render(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sanitized != "<div><b>bold</b></div>" {
		t.Errorf("sanitized raw = %q", sanitized)
	}
}

func TestRenderConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 1000
	trees := make([]*hiccup.Node, n)
	for i := range trees {
		trees[i] = hiccup.Div(hiccup.A("id", fmt.Sprintf("n%d", i), "data-i", i),
			hiccup.Span(nil, hiccup.Textf("item <%d>", i)),
		)
	}

	sequential := make([]string, n)
	for i, tree := range trees {
		out, err := Render(tree)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sequential[i] = out
	}

	concurrent := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range trees {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			concurrent[i], errs[i] = Render(trees[i])
		}(i)
	}
	wg.Wait()

	for i := range trees {
		if errs[i] != nil {
			t.Fatalf("tree %d: %v", i, errs[i])
		}
		if concurrent[i] != sequential[i] {
			t.Errorf("tree %d: concurrent %q != sequential %q", i, concurrent[i], sequential[i])
		}
	}
}
