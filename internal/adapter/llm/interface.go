// Package llm provides an abstraction for hosted text-generation backends.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable marks a generation failure the caller may degrade around:
// missing credentials, transport failure, timeout, non-success status or an
// empty completion. Other errors are programming or input errors.
var ErrUnavailable = errors.New("generation backend unavailable")

// Params tunes a single generation request.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// DefaultParams are the sampling settings used for answers.
var DefaultParams = Params{
	MaxNewTokens: 400,
	Temperature:  0.7,
	TopP:         0.95,
}

// Generator turns a prompt into text.
type Generator interface {
	// Available reports whether the backend is configured to be called at all.
	Available() bool

	// Generate returns the generated text. Failures that mean "backend not
	// usable right now" wrap ErrUnavailable.
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// Ensure implementations satisfy Generator.
var (
	_ Generator = (*HFClient)(nil)
	_ Generator = (*MockClient)(nil)
)
