// Package llm defines the text-in/text-out contract for the hosted language
// model that writes briefs and replies.
package llm

import "context"

// Request is a single generation call.
type Request struct {
	// Prompt is the user turn.
	Prompt string

	// SystemInstruction frames the persona. Empty means none.
	SystemInstruction string

	// Temperature overrides the model default when non-nil.
	Temperature *float32
}

// Generator sends a request to a language model and returns its raw text.
//
// Implementations report transport, authentication and quota failures as
// apperr.KindService errors. They do not retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Temperature returns a pointer suitable for Request.Temperature.
func Temperature(t float32) *float32 {
	return &t
}
