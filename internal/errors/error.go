package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender      Category = "render"
	CategoryNegotiation Category = "negotiation"
	CategoryConfig      Category = "config"
	CategoryPublish     Category = "publish"
	CategoryCLI         Category = "cli"
)

// Error is a structured error with a code, context, and a fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (render, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// File is the input file involved, if any.
	File string

	// Path locates the offending node inside a tree, if any.
	Path string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithFile records the input file involved.
func (e *Error) WithFile(file string) *Error {
	e.File = file
	return e
}

// WithPath records the tree path of the offending node.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// coded is implemented by library errors that map onto a registered code.
type coded interface {
	error
	ErrorCode() string
}

// pathed is implemented by errors that locate a node in a tree.
type pathed interface {
	ErrorPath() string
}

// FromError converts err into an Error. An *Error in the chain is returned
// as is; an error carrying ErrorCode() takes that code; anything else gets
// the fallback code. The original error's text becomes the detail.
func FromError(err error, fallback string) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	code := fallback
	var c coded
	if stderrors.As(err, &c) {
		code = c.ErrorCode()
	}

	out := New(code).Wrap(err).WithDetail(err.Error())
	var p pathed
	if stderrors.As(err, &p) {
		out.Path = p.ErrorPath()
	}
	return out
}
