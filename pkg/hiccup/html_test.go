package hiccup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHTML(t *testing.T) {
	nodes, err := ParseHTMLString(`<div class="card" id="c1"><p>Hello <b>world</b></p><input disabled></div><!-- note -->tail`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*Node{
		Div(A("class", "card", "id", "c1"),
			P(Attrs{}, Text("Hello "), El("b", Attrs{}, Text("world"))),
			Input(A("disabled", true)),
		),
		Text("tail"),
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("ParseHTML mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHTMLEntities(t *testing.T) {
	nodes, err := ParseHTMLString(`<span title="a &amp; b">1 &lt; 2</span>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if v, _ := nodes[0].Attr("title"); v != "a & b" {
		t.Errorf("title = %v, want unescaped value", v)
	}
	if nodes[0].Children[0].Text != "1 < 2" {
		t.Errorf("text = %q, want unescaped text", nodes[0].Children[0].Text)
	}
}
