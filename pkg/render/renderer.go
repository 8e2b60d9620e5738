package render

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// MalformedNodeError reports a tree that violates the node contract.
type MalformedNodeError = hiccup.MalformedNodeError

// Config configures the HTML renderer.
type Config struct {
	// MaxDepth is the deepest tree, in levels, the renderer accepts.
	// Defaults to hiccup.DefaultMaxDepth.
	MaxDepth int

	// VoidElements renders HTML5 void elements (br, img, input, ...)
	// without a closing tag. Children on a void element are then an error.
	// When false every element gets a matching close tag.
	VoidElements bool

	// RawPolicy sanitizes raw markup nodes before they are written.
	// Nil writes raw markup verbatim.
	RawPolicy *bluemonday.Policy
}

// Renderer serializes Hiccup trees to HTML.
//
// A Renderer holds no mutable state and is safe for concurrent use.
type Renderer struct {
	config Config
}

// New creates a Renderer with the given configuration.
func New(config Config) *Renderer {
	if config.MaxDepth <= 0 {
		config.MaxDepth = hiccup.DefaultMaxDepth
	}
	return &Renderer{config: config}
}

var defaultRenderer = New(Config{})

// Render renders node with the default configuration.
func Render(node *hiccup.Node) (string, error) {
	return defaultRenderer.Render(node)
}

// RenderValue decodes loosely typed Hiccup data and renders it with the
// default configuration.
func RenderValue(v any) (string, error) {
	return defaultRenderer.RenderValue(v)
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Render renders a tree to an HTML string. On failure it returns "" and
// a *MalformedNodeError.
func (r *Renderer) Render(node *hiccup.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.renderNode(&buf, node, "/", 1); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderValue converts v with hiccup.FromValueDepth, using the renderer's
// depth limit, and renders the result.
func (r *Renderer) RenderValue(v any) (string, error) {
	node, err := hiccup.FromValueDepth(v, r.config.MaxDepth)
	if err != nil {
		return "", err
	}
	return r.Render(node)
}

// RenderToWriter renders a tree and writes it to w. Nothing is written
// unless the whole tree renders.
func (r *Renderer) RenderToWriter(w io.Writer, node *hiccup.Node) error {
	var buf bytes.Buffer
	if err := r.renderNode(&buf, node, "/", 1); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(buf *bytes.Buffer, node *hiccup.Node, path string, depth int) error {
	if node == nil {
		return hiccup.Malformed(path, "nil node")
	}
	if depth > r.config.MaxDepth {
		return hiccup.TooDeep(path, r.config.MaxDepth)
	}

	switch node.Kind {
	case hiccup.KindElement:
		return r.renderElement(buf, node, path, depth)
	case hiccup.KindText:
		if len(node.Children) > 0 {
			return hiccup.Malformed(path, "text node cannot have children")
		}
		buf.WriteString(escapeHTML(node.Text))
		return nil
	case hiccup.KindRaw:
		if len(node.Children) > 0 {
			return hiccup.Malformed(path, "raw node cannot have children")
		}
		r.renderRaw(buf, node)
		return nil
	default:
		return hiccup.Malformed(path, "unknown node kind %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(buf *bytes.Buffer, node *hiccup.Node, path string, depth int) error {
	tag := node.Tag
	if !hiccup.ValidTag(tag) {
		return hiccup.Malformed(path, "invalid tag name %q", tag)
	}

	buf.WriteByte('<')
	buf.WriteString(tag)
	if err := r.renderAttributes(buf, node.Attrs, path); err != nil {
		return err
	}
	buf.WriteByte('>')

	if r.config.VoidElements && isVoidElement(tag) {
		if len(node.Children) > 0 {
			return hiccup.Malformed(path, "void element <%s> cannot have children", tag)
		}
		return nil
	}

	for i, child := range node.Children {
		if err := r.renderNode(buf, child, hiccup.ChildPath(path, i), depth+1); err != nil {
			return err
		}
	}

	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
	return nil
}

// renderRaw writes raw markup, sanitized when a policy is configured.
func (r *Renderer) renderRaw(buf *bytes.Buffer, node *hiccup.Node) {
	if r.config.RawPolicy != nil {
		buf.WriteString(r.config.RawPolicy.Sanitize(node.Text))
		return
	}
	buf.WriteString(node.Text)
}

// renderAttributes renders attributes in insertion order.
func (r *Renderer) renderAttributes(buf *bytes.Buffer, attrs hiccup.Attrs, path string) error {
	if err := hiccup.ValidateAttrs(attrs, path); err != nil {
		return err
	}

	for _, at := range attrs {
		if !validAttrName(at.Key) {
			return hiccup.Malformed(path, "invalid attribute name %q", at.Key)
		}

		switch v := at.Value.(type) {
		case nil:
			continue
		case bool:
			// Boolean attributes: bare name when true, omitted when false
			if v {
				buf.WriteByte(' ')
				buf.WriteString(at.Key)
			}
			continue
		}

		buf.WriteByte(' ')
		buf.WriteString(at.Key)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(attrToString(at.Value)))
		buf.WriteByte('"')
	}
	return nil
}

// attrToString converts a string or numeric attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}
	return ""
}

// validAttrName rejects names that would break out of the start tag.
func validAttrName(name string) bool {
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case ' ', '\t', '\n', '\r', '\f', '"', '\'', '>', '/', '=', '<', 0:
			return false
		}
	}
	return name != ""
}
