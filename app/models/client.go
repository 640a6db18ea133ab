package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"KisanGPT/app/utils/restclient"
)

const endpoint = "/chat/completions"

var (
	_ Generator     = &LLMClient{}
	_ JSONGenerator = &LLMClient{}
)

// LLMClient talks to any OpenAI compatible chat completions endpoint
// (Gemini's compatibility layer, LM Studio, vLLM...).
type LLMClient struct {
	restClient  restclient.Interface
	model       string
	temperature float64
}

func NewLLMClient(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *LLMClient {
	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + apiKey}
	}
	rc := restclient.NewRestClient(strings.TrimRight(baseURL, "/"), headers)
	if timeout > 0 {
		rc.WithTimeout(timeout)
	}
	return &LLMClient{restClient: rc, model: model, temperature: temperature}
}

// WithModel returns a client sharing the same connection but targeting another
// model. Empty keeps the current one.
func (mc *LLMClient) WithModel(model string) *LLMClient {
	if model == "" || model == mc.model {
		return mc
	}
	clone := *mc
	clone.model = model
	return &clone
}

func (mc *LLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	return mc.Chat(ctx, []Message{{Role: "user", Content: prompt}}, false)
}

func (mc *LLMClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return mc.Chat(ctx, []Message{{Role: "user", Content: prompt}}, true)
}

// Chat sends a single completion request. There is no retry here: interactive
// callers degrade on failure and batch callers decide their own retry policy
// by checking ErrRateLimited.
func (mc *LLMClient) Chat(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	payload := requestPayload{
		Model:       mc.model,
		Messages:    messages,
		Temperature: mc.temperature,
	}
	if jsonMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, status, err := mc.restClient.Post(ctx, endpoint, payload, nil)
	if err != nil {
		if isRateLimited(status, body) {
			log.Printf("⚠️ LLM quota hit for model %s", mc.model)
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	var response ResponseLLM
	if err = json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("parse chat completion: %w", err)
	}
	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Message.Content, nil
}

func isRateLimited(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 400 && strings.Contains(string(body), "RESOURCE_EXHAUSTED")
}

// IsRateLimited reports whether err came from a provider quota refusal.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
