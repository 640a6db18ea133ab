package models

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks a provider refusal due to quota (HTTP 429 or
	// RESOURCE_EXHAUSTED). Callers that can wait retry on it; others give up.
	ErrRateLimited   = errors.New("llm rate limited")
	ErrEmptyResponse = errors.New("empty llm response")
)

// Generator turns a fully assembled prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// JSONGenerator asks the model for a single JSON object and returns it raw.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	EmbedText(ctx context.Context, input string) ([]float32, error)
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)
}
