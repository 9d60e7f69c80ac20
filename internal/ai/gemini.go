package ai

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API with a bounded per-call timeout.
// Callers must never invoke it while holding a store transaction open.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c, model: model, timeout: timeout}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &UpstreamError{Err: errors.New("empty response from model")}
	}
	return text, nil
}

// Disabled answers every call with an upstream error. Used when no API
// key is configured so the rest of the app keeps working.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", &UpstreamError{Err: errors.New("GOOGLE_API_KEY not configured")}
}
