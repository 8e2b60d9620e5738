package negotiate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wbweb-dev/wbweb/pkg/render"
)

// Strategy names.
const (
	NameFragment   = "fragment"
	NameAPI        = "api"
	NameStructured = "structured"
	NameRaw        = "raw"
)

// FragmentStrategy builds a tree and renders it to HTML.
type FragmentStrategy struct {
	// Label overrides the strategy name (defaults to "fragment").
	Label string

	// Build constructs the tree. Required.
	Build BuildFunc

	// Renderer renders the tree. Nil uses the default renderer.
	Renderer *render.Renderer
}

// Name implements Strategy.
func (s *FragmentStrategy) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return NameFragment
}

// Produce implements Strategy.
func (s *FragmentStrategy) Produce(p Payload) (Result, error) {
	status, err := statusFrom(p)
	if err != nil {
		return Result{}, strategyError(s.Name(), StatusKey, p, err)
	}
	if s.Build == nil {
		return Result{}, strategyError(s.Name(), "", p, ErrMissingBuilder)
	}

	node, err := s.Build(p)
	if err != nil {
		return Result{}, strategyError(s.Name(), "", p, err)
	}

	var html string
	if s.Renderer != nil {
		html, err = s.Renderer.Render(node)
	} else {
		html, err = render.Render(node)
	}
	if err != nil {
		return Result{}, strategyError(s.Name(), "", p, err)
	}

	return Result{
		Body:        html,
		Status:      status,
		ContentType: ContentTypeHTML,
		Strategy:    s.Name(),
	}, nil
}

// StructuredStrategy produces a JSON-serializable body for API clients.
//
// With a Build function the body is the component form of the built tree
// (see ComponentJSON). Without one the body is the payload itself, minus
// the reserved status key.
type StructuredStrategy struct {
	Build BuildFunc

	// MaxDepth bounds the built tree. Zero means hiccup.DefaultMaxDepth.
	MaxDepth int
}

// Name implements Strategy.
func (s *StructuredStrategy) Name() string { return NameStructured }

// Produce implements Strategy.
func (s *StructuredStrategy) Produce(p Payload) (Result, error) {
	status, err := statusFrom(p)
	if err != nil {
		return Result{}, strategyError(s.Name(), StatusKey, p, err)
	}

	var body any
	if s.Build != nil {
		node, err := s.Build(p)
		if err != nil {
			return Result{}, strategyError(s.Name(), "", p, err)
		}
		body, err = ComponentJSONDepth(node, s.MaxDepth)
		if err != nil {
			return Result{}, strategyError(s.Name(), "", p, err)
		}
	} else {
		data := make(map[string]any, len(p))
		for k, v := range p {
			if k != StatusKey {
				data[k] = v
			}
		}
		if key, err := firstUnserializable(data); err != nil {
			return Result{}, strategyError(s.Name(), key, p, err)
		}
		body = data
	}

	return Result{
		Body:        body,
		Status:      status,
		ContentType: ContentTypeJSON,
		Strategy:    s.Name(),
	}, nil
}

// firstUnserializable returns the first key, in sorted order, whose value
// cannot be encoded as JSON.
func firstUnserializable(data map[string]any) (string, error) {
	for _, k := range Payload(data).Keys() {
		if _, err := json.Marshal(data[k]); err != nil {
			return k, fmt.Errorf("value is not JSON-serializable: %w", err)
		}
	}
	return "", nil
}

// RawStrategy dumps the whole payload as indented JSON text for debugging.
// Values that cannot be encoded are replaced by their fmt representation.
type RawStrategy struct{}

// Name implements Strategy.
func (s *RawStrategy) Name() string { return NameRaw }

// Produce implements Strategy.
func (s *RawStrategy) Produce(p Payload) (Result, error) {
	status, err := statusFrom(p)
	if err != nil {
		return Result{}, strategyError(s.Name(), StatusKey, p, err)
	}

	data := make(map[string]any, len(p))
	for k, v := range p {
		if _, err := json.Marshal(v); err != nil {
			data[k] = fmt.Sprint(v)
			continue
		}
		data[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return Result{}, strategyError(s.Name(), "", p, err)
	}

	return Result{
		Body:        strings.TrimRight(buf.String(), "\n"),
		Status:      status,
		ContentType: ContentTypeText,
		Strategy:    s.Name(),
	}, nil
}
