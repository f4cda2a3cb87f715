package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("llm: empty response")

type Provider interface {
	// Generate returns the full text completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
	Close() error
}
