package hiccup

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped markup node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *Node {
	return &Node{
		Kind: KindRaw,
		Text: html,
	}
}

// El creates an element node. Nil children are dropped.
func El(tag string, attrs Attrs, children ...*Node) *Node {
	node := &Node{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    attrs,
		Children: make([]*Node, 0, len(children)),
	}
	for _, c := range children {
		if c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node
}

// Common elements.

func Div(attrs Attrs, children ...*Node) *Node     { return El("div", attrs, children...) }
func Span(attrs Attrs, children ...*Node) *Node    { return El("span", attrs, children...) }
func P(attrs Attrs, children ...*Node) *Node       { return El("p", attrs, children...) }
func Main(attrs Attrs, children ...*Node) *Node    { return El("main", attrs, children...) }
func Section(attrs Attrs, children ...*Node) *Node { return El("section", attrs, children...) }
func H1(attrs Attrs, children ...*Node) *Node      { return El("h1", attrs, children...) }
func H2(attrs Attrs, children ...*Node) *Node      { return El("h2", attrs, children...) }
func Ul(attrs Attrs, children ...*Node) *Node      { return El("ul", attrs, children...) }
func Li(attrs Attrs, children ...*Node) *Node      { return El("li", attrs, children...) }
func Anchor(attrs Attrs, children ...*Node) *Node  { return El("a", attrs, children...) }
func Form(attrs Attrs, children ...*Node) *Node    { return El("form", attrs, children...) }
func Button(attrs Attrs, children ...*Node) *Node  { return El("button", attrs, children...) }
func Input(attrs Attrs) *Node                      { return El("input", attrs) }

// Map renders each item with fn and drops nil results.
func Map[T any](items []T, fn func(T) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for _, item := range items {
		if n := fn(item); n != nil {
			out = append(out, n)
		}
	}
	return out
}
