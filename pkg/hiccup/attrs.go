package hiccup

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
)

// Attr is a single attribute.
//
// Value is one of string, bool, nil, a Go integer or float, or
// json.Number. A nil or false value omits the attribute on render and a
// true value renders the bare name.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an ordered attribute list. Render order is insertion order.
type Attrs []Attr

// A is shorthand for building Attrs from alternating key/value pairs.
// A trailing key without a value is ignored.
//
//	hiccup.A("class", "card", "hidden", true)
func A(kv ...any) Attrs {
	attrs := make(Attrs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		attrs = append(attrs, Attr{Key: key, Value: kv[i+1]})
	}
	return attrs
}

// FromMap builds Attrs from a map. Go maps are unordered, so keys are
// sorted to keep rendering deterministic.
func FromMap(m map[string]any) Attrs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(Attrs, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attr{Key: k, Value: m[k]})
	}
	return attrs
}

// Get returns the value of key and whether it is present.
func (a Attrs) Get(key string) (any, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return nil, false
}

// Set returns a copy of a with key set to value. An existing key keeps its
// position; a new key is appended.
func (a Attrs) Set(key string, value any) Attrs {
	out := make(Attrs, len(a), len(a)+1)
	copy(out, a)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Key: key, Value: value})
}

// Map returns the attributes as an unordered map.
func (a Attrs) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, at := range a {
		m[at.Key] = at.Value
	}
	return m
}

// Equal reports whether a and b hold the same keys and values in the same order.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !attrValueEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// attrValueEqual compares valid attribute values. Numbers of the same kind
// family compare by value, so a named int type equals the same int.
func attrValueEqual(x, y any) bool {
	if !ValidAttrValue(x) || !ValidAttrValue(y) {
		return false
	}
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if reflect.TypeOf(x) == reflect.TypeOf(y) {
		return x == y
	}

	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	switch {
	case vx.CanInt() && vy.CanInt():
		return vx.Int() == vy.Int()
	case vx.CanUint() && vy.CanUint():
		return vx.Uint() == vy.Uint()
	case vx.CanFloat() && vy.CanFloat():
		return vx.Float() == vy.Float()
	case vx.Kind() == reflect.String && vy.Kind() == reflect.String:
		return vx.String() == vy.String()
	}
	return false
}

// MarshalJSON encodes the attributes as a JSON object in insertion order.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(at.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(at.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping document key order.
func (a *Attrs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeOrdered(dec, 1, DefaultMaxDepth)
	if err != nil {
		return err
	}
	attrs, ok := v.(Attrs)
	if !ok {
		return &json.UnmarshalTypeError{Value: "non-object", Type: attrsType}
	}
	*a = attrs
	return nil
}
