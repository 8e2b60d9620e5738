package negotiate

import (
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// Component is the structured form of an element for API clients.
// Field and attribute order are stable in the encoded JSON.
type Component struct {
	Component  string       `json:"component"`
	Attributes hiccup.Attrs `json:"attributes"`
	Children   []any        `json:"children,omitempty"`
}

// ComponentJSON converts a tree into its structured form: elements become
// Components, text and raw leaves become plain strings. The tree is
// validated the same way the renderer validates it.
func ComponentJSON(node *hiccup.Node) (any, error) {
	return ComponentJSONDepth(node, hiccup.DefaultMaxDepth)
}

// ComponentJSONDepth is ComponentJSON with a limit of maxDepth levels. Zero
// or a negative value means hiccup.DefaultMaxDepth.
func ComponentJSONDepth(node *hiccup.Node, maxDepth int) (any, error) {
	return componentJSON(node, "/", 1, hiccup.DepthLimit(maxDepth))
}

func componentJSON(node *hiccup.Node, path string, depth, maxDepth int) (any, error) {
	if node == nil {
		return nil, hiccup.Malformed(path, "nil node")
	}
	if depth > maxDepth {
		return nil, hiccup.TooDeep(path, maxDepth)
	}

	switch node.Kind {
	case hiccup.KindText, hiccup.KindRaw:
		if len(node.Children) > 0 {
			return nil, hiccup.Malformed(path, "%s node cannot have children", node.Kind)
		}
		return node.Text, nil
	case hiccup.KindElement:
	default:
		return nil, hiccup.Malformed(path, "unknown node kind %d", node.Kind)
	}

	if !hiccup.ValidTag(node.Tag) {
		return nil, hiccup.Malformed(path, "invalid tag name %q", node.Tag)
	}
	if err := hiccup.ValidateAttrs(node.Attrs, path); err != nil {
		return nil, err
	}

	c := Component{
		Component:  node.Tag,
		Attributes: node.Attrs,
	}
	if c.Attributes == nil {
		c.Attributes = hiccup.Attrs{}
	}
	for i, child := range node.Children {
		v, err := componentJSON(child, hiccup.ChildPath(path, i), depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, v)
	}
	return c, nil
}
