package hiccup

import (
	"encoding/json"
	"reflect"
)

// FromValue converts loosely typed Hiccup data into a Node tree.
//
// A string becomes a text node. A []any becomes an element: position 0 is
// the tag, position 1 the attribute mapping (Attrs, map[string]any or
// map[string]string) and the rest are children. Attribute mappings are
// mandatory, so []any{"div"} is malformed. A *Node is used as is.
func FromValue(v any) (*Node, error) {
	return FromValueDepth(v, DefaultMaxDepth)
}

// FromValueDepth is FromValue with a limit of maxDepth levels. Zero or a
// negative value means DefaultMaxDepth.
func FromValueDepth(v any, maxDepth int) (*Node, error) {
	return fromValue(v, "/", 1, DepthLimit(maxDepth))
}

func fromValue(v any, path string, depth, maxDepth int) (*Node, error) {
	if depth > maxDepth {
		return nil, TooDeep(path, maxDepth)
	}

	switch val := v.(type) {
	case string:
		return Text(val), nil
	case *Node:
		if val == nil {
			return nil, Malformed(path, "nil node")
		}
		return val, nil
	case []any:
		return elementFromSlice(val, path, depth, maxDepth)
	case Attrs:
		if raw, ok := rawFromMapping(val); ok {
			return raw, nil
		}
		return nil, Malformed(path, "mapping is not a node; only {%q: markup} is allowed here", rawKey)
	case map[string]any:
		if raw, ok := rawFromMapping(FromMap(val)); ok {
			return raw, nil
		}
		return nil, Malformed(path, "mapping is not a node; only {%q: markup} is allowed here", rawKey)
	case nil:
		return nil, Malformed(path, "nil node")
	default:
		return nil, Malformed(path, "unsupported node value of type %T", v)
	}
}

func elementFromSlice(val []any, path string, depth, maxDepth int) (*Node, error) {
	if len(val) < 2 {
		return nil, Malformed(path, "element needs a tag and an attribute mapping, got %d item(s)", len(val))
	}

	tag, ok := val[0].(string)
	if !ok {
		return nil, Malformed(path, "element tag must be a string, got %T", val[0])
	}
	if !ValidTag(tag) {
		return nil, Malformed(path, "invalid tag name %q", tag)
	}

	attrs, err := attrsFromValue(val[1], path)
	if err != nil {
		return nil, err
	}

	node := &Node{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    attrs,
		Children: make([]*Node, 0, len(val)-2),
	}
	for i, raw := range val[2:] {
		child, err := fromValue(raw, ChildPath(path, i), depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func attrsFromValue(v any, path string) (Attrs, error) {
	var attrs Attrs
	switch m := v.(type) {
	case Attrs:
		attrs = m
	case map[string]any:
		attrs = FromMap(m)
	case map[string]string:
		generic := make(map[string]any, len(m))
		for k, s := range m {
			generic[k] = s
		}
		attrs = FromMap(generic)
	default:
		return nil, Malformed(path, "attributes must be a mapping, got %T", v)
	}
	if err := ValidateAttrs(attrs, path); err != nil {
		return nil, err
	}
	return attrs, nil
}

// ValidateAttrs checks that keys are non-empty and unique and that every
// value has a supported type.
func ValidateAttrs(attrs Attrs, path string) error {
	seen := make(map[string]struct{}, len(attrs))
	for _, at := range attrs {
		if at.Key == "" {
			return Malformed(path, "empty attribute name")
		}
		if _, dup := seen[at.Key]; dup {
			return Malformed(path, "duplicate attribute %q", at.Key)
		}
		seen[at.Key] = struct{}{}
		if !ValidAttrValue(at.Value) {
			return Malformed(path, "attribute %q has unsupported value type %T", at.Key, at.Value)
		}
	}
	return nil
}

// ValidAttrValue reports whether v is a renderable attribute value.
func ValidAttrValue(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ValidTag reports whether tag is an identifier-like element name:
// a letter followed by letters, digits, '-', '_', '.' or ':'.
func ValidTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '-' || c == '_' || c == '.' || c == ':'):
		default:
			return false
		}
	}
	return true
}
