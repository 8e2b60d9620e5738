// Package render serializes Hiccup trees to HTML.
//
// The renderer is a pure function of its input and configuration:
//
//   - Text is escaped (&, <, >, " and ')
//   - Attributes are emitted in insertion order, values escaped and quoted
//   - A true attribute renders as a bare name; false and nil omit it
//   - Every element gets a matching close tag unless Config.VoidElements
//     is set, in which case HTML5 void elements are left open
//   - No whitespace is inserted, so output is byte-for-byte deterministic
//
// # Basic Usage
//
//	renderer := render.New(render.Config{})
//	html, err := renderer.Render(node)
//
// Loosely typed data can be rendered directly:
//
//	html, err := render.RenderValue([]any{"p", map[string]any{}, "Hello"})
//	// <p>Hello</p>
//
// # Errors
//
// A tree that does not fit the node contract fails with a
// *MalformedNodeError carrying the path to the offending node. Rendering is
// atomic: nothing is returned or written when any part of the tree fails.
//
// # Depth
//
// Rendering is recursive. Config.MaxDepth (default 512 levels) bounds the
// recursion; deeper trees are rejected as malformed.
//
// # Security
//
// All text content is escaped. Raw nodes are written unescaped and should
// only carry trusted content, or be filtered through Config.RawPolicy.
package render
