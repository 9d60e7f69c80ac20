package ai

import "context"

// Generator produces text from a prompt. Implementations must honor
// context cancellation and return an *UpstreamError on any failure, so
// handlers can degrade the response instead of aborting the request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UpstreamError wraps any failure of the text-generation service.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "text generation failed: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }
