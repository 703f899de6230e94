// Package llmclient wraps the hosted model API behind a small client
// interface. Cross-cutting concerns (retries, logging) are applied via
// Middleware rather than baked into the clients.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// Media is an inline attachment (typically a photo) sent alongside the
// prompt on multimodal calls.
type Media struct {
	MIMEType string
	Data     []byte
}

// LLMClient generates structured JSON from a prompt, an input payload,
// and optional inline media.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any, media ...Media) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
