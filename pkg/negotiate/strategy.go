package negotiate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// StatusKey is the reserved payload key that selects the result status.
const StatusKey = "status_code"

// Content types produced by the built-in strategies.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Payload is the keyword-style data handed to a strategy. Strategies treat
// it as read-only.
type Payload map[string]any

// Keys returns the payload keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require returns the value stored under key, or a *KeyError naming the
// missing key. Builders use it so that strategy errors report the key.
func (p Payload) Require(key string) (any, error) {
	v, ok := p[key]
	if !ok {
		return nil, &KeyError{Key: key, Reason: "missing"}
	}
	return v, nil
}

// String returns the string stored under key.
func (p Payload) String(key string) (string, error) {
	v, err := p.Require(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &KeyError{Key: key, Reason: fmt.Sprintf("is %T, not string", v)}
	}
	return s, nil
}

// Result is the output of a strategy.
type Result struct {
	// Body is a string for markup and raw results, and a JSON-serializable
	// value for structured results.
	Body any

	// Status is the HTTP status code to respond with.
	Status int

	// ContentType is the media type of the serialized body.
	ContentType string

	// Strategy is the name of the strategy that produced the result.
	Strategy string
}

// Bytes serializes the body. Strings are returned as is; other values are
// encoded as JSON without HTML escaping.
func (r Result) Bytes() ([]byte, error) {
	switch b := r.Body.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Body); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// BuildFunc builds a tree from a payload.
type BuildFunc func(Payload) (*hiccup.Node, error)

// Strategy produces a Result for a payload in one output format.
type Strategy interface {
	Name() string
	Produce(Payload) (Result, error)
}

var (
	// ErrMissingBuilder is returned when a strategy needs a builder and has none.
	ErrMissingBuilder = errors.New("no builder configured")

	// ErrNoStrategy is returned when the negotiated strategy is not configured.
	ErrNoStrategy = errors.New("no strategy configured")
)

// KeyError reports a payload key a strategy or builder could not use.
type KeyError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("payload key %q %s", e.Key, e.Reason)
}

// RenderStrategyError reports a strategy that could not produce output.
// It is never recovered from internally: no other strategy is tried.
type RenderStrategyError struct {
	// Strategy is the name of the failing strategy.
	Strategy string

	// Key is the offending payload key, or "" when no single key is at fault.
	Key string

	// Keys lists the payload keys that were present, for diagnostics.
	Keys []string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RenderStrategyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "render strategy %q failed", e.Strategy)
	if e.Key != "" {
		fmt.Fprintf(&b, " on payload key %q", e.Key)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *RenderStrategyError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the registered error code.
func (e *RenderStrategyError) ErrorCode() string {
	return "N001"
}

// strategyError wraps err for the named strategy. A *KeyError anywhere in
// the chain supplies the key unless one is given.
func strategyError(name, key string, p Payload, err error) *RenderStrategyError {
	var rse *RenderStrategyError
	if errors.As(err, &rse) && rse.Strategy == name {
		return rse
	}
	if key == "" {
		var ke *KeyError
		if errors.As(err, &ke) {
			key = ke.Key
		}
	}
	return &RenderStrategyError{Strategy: name, Key: key, Keys: p.Keys(), Err: err}
}

// statusFrom reads the reserved status key. Absent means 200.
func statusFrom(p Payload) (int, error) {
	v, ok := p[StatusKey]
	if !ok || v == nil {
		return http.StatusOK, nil
	}

	var code int64
	switch n := v.(type) {
	case int:
		code = int64(n)
	case int32:
		code = int64(n)
	case int64:
		code = n
	case float64:
		if n != math.Trunc(n) {
			return 0, &KeyError{Key: StatusKey, Reason: fmt.Sprintf("is not an integer: %v", n)}
		}
		code = int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &KeyError{Key: StatusKey, Reason: fmt.Sprintf("is not an integer: %s", n)}
		}
		code = i
	default:
		return 0, &KeyError{Key: StatusKey, Reason: fmt.Sprintf("is %T, not an integer", v)}
	}

	if code < 100 || code > 599 {
		return 0, &KeyError{Key: StatusKey, Reason: fmt.Sprintf("is out of range: %d", code)}
	}
	return int(code), nil
}
