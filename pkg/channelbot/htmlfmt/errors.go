// Copyright 2024-2026 Aiku AI

package htmlfmt

import (
	"errors"
	"fmt"
)

// Reasons a render can fail. They are always wrapped in a *RenderError.
var (
	ErrEmptyContent      = errors.New("no usable content")
	ErrMalformedLink     = errors.New("link must look like: title | url")
	ErrMalformedTemplate = errors.New("template is missing required fields")
	ErrUnknownStyle      = errors.New("unknown style")
)

// RenderError reports structured input that a style could not render.
// The operator can fix the input and retry.
type RenderError struct {
	Style  Style
	Reason error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Style, e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Reason
}

func renderErr(style Style, reason error) error {
	return &RenderError{Style: style, Reason: reason}
}

// IsRenderError reports whether err came from a failed render.
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}
