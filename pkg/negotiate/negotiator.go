package negotiate

import (
	"strings"

	"github.com/wbweb-dev/wbweb/pkg/render"
)

// Choice identifies the strategy family picked by Select.
type Choice uint8

const (
	ChoiceFragment Choice = iota
	ChoiceStructured
	ChoiceRaw
)

// String returns the string representation of the Choice.
func (c Choice) String() string {
	switch c {
	case ChoiceFragment:
		return NameFragment
	case ChoiceStructured:
		return NameStructured
	case ChoiceRaw:
		return NameRaw
	default:
		return "unknown"
	}
}

// MediaTypes lists the media types recognized by Select. Entries are
// compared lower-cased and without parameters.
type MediaTypes struct {
	Structured []string
	Markup     []string
	Raw        []string
}

// DefaultMediaTypes returns the media types recognized out of the box.
func DefaultMediaTypes() MediaTypes {
	return MediaTypes{
		Structured: []string{"application/json", "application/vnd.api+json"},
		Markup:     []string{"text/html", "application/xhtml+xml", "application/xml"},
		Raw:        []string{"application/raw"},
	}
}

// match returns the choice for a normalized media type.
func (m MediaTypes) match(mediaType string) (Choice, bool) {
	for _, t := range m.Structured {
		if normalize(t) == mediaType {
			return ChoiceStructured, true
		}
	}
	for _, t := range m.Raw {
		if normalize(t) == mediaType {
			return ChoiceRaw, true
		}
	}
	for _, t := range m.Markup {
		if normalize(t) == mediaType {
			return ChoiceFragment, true
		}
	}
	return ChoiceFragment, false
}

// Request is one negotiation input.
type Request struct {
	// Accept is the accept-list in the caller's order.
	Accept []string

	// APIClient marks clients that want component markup rather than a
	// full UI (X-API-Client or HX-Request in the HTTP layer).
	APIClient bool

	// Payload is passed to the selected strategy.
	Payload Payload
}

// Negotiator selects a strategy from an accept-list and runs it.
//
// A Negotiator is immutable after construction and safe for concurrent use.
type Negotiator struct {
	fragment   Strategy
	api        Strategy
	structured Strategy
	raw        Strategy
	types      MediaTypes
	renderer   *render.Renderer
}

// Option configures a Negotiator.
type Option func(*Negotiator)

// WithRenderer sets the renderer of every *FragmentStrategy without one,
// and the depth limit of every *StructuredStrategy without one, in whatever
// order the options are given. Strategies passed in by the caller are
// copied, never modified.
func WithRenderer(r *render.Renderer) Option {
	return func(n *Negotiator) { n.renderer = r }
}

// WithAPIBuilder sets the builder for API clients. It serves markup
// requests flagged as API clients and becomes the source of structured
// output, which is then the component form of its tree.
func WithAPIBuilder(build BuildFunc) Option {
	return func(n *Negotiator) {
		n.api = &FragmentStrategy{Label: NameAPI, Build: build}
		n.structured = &StructuredStrategy{Build: build}
	}
}

// WithFragment replaces the fragment strategy.
func WithFragment(s Strategy) Option {
	return func(n *Negotiator) { n.fragment = s }
}

// WithStructured replaces the structured strategy.
func WithStructured(s Strategy) Option {
	return func(n *Negotiator) { n.structured = s }
}

// WithRaw replaces the raw strategy.
func WithRaw(s Strategy) Option {
	return func(n *Negotiator) { n.raw = s }
}

// WithMediaTypes replaces the recognized media types.
func WithMediaTypes(types MediaTypes) Option {
	return func(n *Negotiator) { n.types = types }
}

// New creates a Negotiator whose fragment strategy renders the tree built
// by build. Structured output defaults to the payload itself and raw output
// to an indented JSON dump.
func New(build BuildFunc, opts ...Option) *Negotiator {
	n := &Negotiator{
		fragment:   &FragmentStrategy{Build: build},
		structured: &StructuredStrategy{},
		raw:        &RawStrategy{},
		types:      DefaultMediaTypes(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.renderer != nil {
		n.fragment = n.withRenderer(n.fragment)
		n.api = n.withRenderer(n.api)
		n.structured = n.withRenderer(n.structured)
	}
	return n
}

func (n *Negotiator) withRenderer(s Strategy) Strategy {
	switch st := s.(type) {
	case *FragmentStrategy:
		if st.Renderer == nil {
			c := *st
			c.Renderer = n.renderer
			return &c
		}
	case *StructuredStrategy:
		if st.MaxDepth == 0 {
			c := *st
			c.MaxDepth = n.renderer.Config().MaxDepth
			return &c
		}
	}
	return s
}

// Select picks the strategy family for an accept-list.
//
// Entries are inspected in the order given. The first entry that matches a
// known media type decides: structured types select ChoiceStructured, raw
// types ChoiceRaw and markup types ChoiceFragment. Unknown entries and
// wildcards are skipped. With no match, including an empty list, the result
// is ChoiceFragment. Quality values are ignored.
func (n *Negotiator) Select(accept []string) Choice {
	for _, entry := range accept {
		mt := normalize(entry)
		if mt == "" || strings.Contains(mt, "*") {
			continue
		}
		if choice, ok := n.types.match(mt); ok {
			return choice
		}
	}
	return ChoiceFragment
}

// Strategy returns the strategy that serves choice.
func (n *Negotiator) Strategy(choice Choice, apiClient bool) Strategy {
	switch choice {
	case ChoiceStructured:
		return n.structured
	case ChoiceRaw:
		return n.raw
	default:
		if apiClient && n.api != nil {
			return n.api
		}
		return n.fragment
	}
}

// SelectAndRender selects a strategy for accept and produces a result from
// payload. Strategy failures are returned as *RenderStrategyError; no
// other strategy is tried.
func (n *Negotiator) SelectAndRender(accept []string, payload Payload) (Result, error) {
	return n.Negotiate(Request{Accept: accept, Payload: payload})
}

// Negotiate is SelectAndRender with API-client awareness.
func (n *Negotiator) Negotiate(req Request) (Result, error) {
	choice := n.Select(req.Accept)
	s := n.Strategy(choice, req.APIClient)
	if s == nil {
		return Result{}, strategyError(choice.String(), "", req.Payload, ErrNoStrategy)
	}

	res, err := s.Produce(req.Payload)
	if err != nil {
		return Result{}, strategyError(s.Name(), "", req.Payload, err)
	}
	return res, nil
}

// SplitAccept splits a raw Accept header into its entries, keeping order.
func SplitAccept(header string) []string {
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalize lower-cases a media type and drops its parameters.
func normalize(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
