package hiccup

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MaxYAMLNodes bounds the number of nodes a YAML document may expand to
// once aliases are followed.
const MaxYAMLNodes = 1 << 20

// Alias expansion errors.
var (
	ErrYAMLAliasCycle = errors.New("yaml alias refers to itself")
	ErrYAMLTooLarge   = fmt.Errorf("yaml document expands to more than %d nodes", MaxYAMLNodes)
)

// DecodeYAML parses a YAML Hiccup document. Mapping key order is kept.
//
//	- div
//	- {class: card}
//	- [h1, {}, Title]
func DecodeYAML(data []byte) (*Node, error) {
	return DecodeYAMLDepth(data, DefaultMaxDepth)
}

// DecodeYAMLDepth is DecodeYAML with a limit of maxDepth tree levels. Zero
// or a negative value means DefaultMaxDepth. Aliases are expanded under
// the same limit; self-referencing aliases and documents expanding past
// MaxYAMLNodes are rejected.
func DecodeYAMLDepth(data []byte, maxDepth int) (*Node, error) {
	maxDepth = DepthLimit(maxDepth)
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode hiccup yaml: %w", err)
	}

	d := yamlDecoder{limit: maxDepth + 1, expanding: make(map[*yaml.Node]bool)}
	v, err := d.value(&doc, 0)
	if err != nil {
		var mne *MalformedNodeError
		if errors.As(err, &mne) {
			return nil, TooDeep("/", maxDepth)
		}
		return nil, fmt.Errorf("decode hiccup yaml: %w", err)
	}
	return FromValueDepth(v, maxDepth)
}

// yamlDecoder converts a yaml.Node graph to loose Hiccup data. depth counts
// nested collections; an element at the last tree level still holds its
// attribute mapping, hence limit is one more than the tree depth.
type yamlDecoder struct {
	limit     int
	nodes     int
	expanding map[*yaml.Node]bool
}

func (d *yamlDecoder) value(n *yaml.Node, depth int) (any, error) {
	d.nodes++
	if d.nodes > MaxYAMLNodes {
		return nil, ErrYAMLTooLarge
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		if d.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: %w", n.Line, ErrYAMLAliasCycle)
		}
		d.expanding[n.Alias] = true
		v, err := d.value(n.Alias, depth)
		delete(d.expanding, n.Alias)
		return v, err
	case yaml.SequenceNode:
		if depth+1 > d.limit {
			return nil, TooDeep("/", d.limit)
		}
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.value(c, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		if depth+1 > d.limit {
			return nil, TooDeep("/", d.limit)
		}
		attrs := make(Attrs, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := d.value(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, Attr{Key: key.Value, Value: v})
		}
		return attrs, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return n.Value, nil
	}
}
