package hiccup

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText    Kind = iota // Escaped text leaf
	KindElement             // <tag attrs...>children</tag>
	KindRaw                 // Trusted markup, written unescaped
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Node is a Hiccup tree node.
//
// The kind is fixed by the constructor (Text, Raw, El) and never inferred
// from the shape of the value. Renderers treat nodes as read-only.
type Node struct {
	Kind     Kind    // Node type
	Tag      string  // Element tag name (KindElement)
	Attrs    Attrs   // Ordered attributes (KindElement)
	Children []*Node // Child nodes (KindElement)
	Text     string  // Content for KindText and KindRaw
}

// IsElement reports whether n is a non-nil element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (any, bool) {
	if n == nil {
		return nil, false
	}
	return n.Attrs.Get(key)
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Equal reports whether two trees are structurally equal.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Tag != o.Tag || n.Text != o.Text {
		return false
	}
	if !n.Attrs.Equal(o.Attrs) || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
