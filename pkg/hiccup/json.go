package hiccup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
)

var attrsType = reflect.TypeOf(Attrs{})

// rawKey marks a raw markup node in the data form: {"raw": "<b>hi</b>"}.
const rawKey = "raw"

// DecodeJSON parses a JSON Hiccup document. Object key order is kept, so
// attributes render in document order.
func DecodeJSON(data []byte) (*Node, error) {
	return DecodeJSONDepth(data, DefaultMaxDepth)
}

// DecodeJSONDepth is DecodeJSON with a limit of maxDepth tree levels. Zero
// or a negative value means DefaultMaxDepth. Nesting is checked while
// reading, so oversized documents fail before they are fully decoded.
func DecodeJSONDepth(data []byte, maxDepth int) (*Node, error) {
	maxDepth = DepthLimit(maxDepth)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	// An element at the last level still holds its attribute object.
	v, err := decodeOrdered(dec, 1, maxDepth+1)
	if err != nil {
		var mne *MalformedNodeError
		if errors.As(err, &mne) {
			return nil, TooDeep("/", maxDepth)
		}
		return nil, fmt.Errorf("decode hiccup json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode hiccup json: trailing data after document")
	}
	return FromValueDepth(v, maxDepth)
}

// decodeOrdered reads one JSON value, returning []any for arrays, Attrs for
// objects and json.Number for numbers. Containers nested deeper than limit
// fail with a *MalformedNodeError.
func decodeOrdered(dec *json.Decoder, depth, limit int) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth > limit {
			return nil, TooDeep("/", limit)
		}
		switch t {
		case '[':
			arr := make([]any, 0)
			for dec.More() {
				v, err := decodeOrdered(dec, depth+1, limit)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		case '{':
			attrs := make(Attrs, 0)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				v, err := decodeOrdered(dec, depth+1, limit)
				if err != nil {
					return nil, err
				}
				attrs = append(attrs, Attr{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return attrs, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

// MarshalJSON encodes the node in Hiccup data form: a string for text,
// [tag, {attrs}, children...] for elements and {"raw": markup} for raw
// nodes.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	switch n.Kind {
	case KindText:
		return json.Marshal(n.Text)
	case KindRaw:
		return json.Marshal(map[string]string{rawKey: n.Text})
	case KindElement:
		parts := make([]any, 0, len(n.Children)+2)
		attrs := n.Attrs
		if attrs == nil {
			attrs = Attrs{}
		}
		parts = append(parts, n.Tag, attrs)
		for _, c := range n.Children {
			parts = append(parts, c)
		}
		return json.Marshal(parts)
	default:
		return nil, fmt.Errorf("hiccup: cannot encode node kind %s", n.Kind)
	}
}

// UnmarshalJSON decodes the Hiccup data form produced by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// rawFromMapping recognizes the {"raw": markup} data form.
func rawFromMapping(attrs Attrs) (*Node, bool) {
	if len(attrs) != 1 || attrs[0].Key != rawKey {
		return nil, false
	}
	s, ok := attrs[0].Value.(string)
	if !ok {
		return nil, false
	}
	return Raw(s), true
}
