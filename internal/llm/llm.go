// Package llm wraps the model providers behind a single JSON-generation
// interface. Every provider takes a prompt plus an arbitrary input value,
// appends the input as an [INPUT JSON] block, and returns the raw JSON the
// model produced.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidJSON is returned when a provider answered but the payload is not
// usable JSON.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultOllamaModel = "llama3"
)

// New builds the client for the configured provider. An empty provider means
// Gemini; an empty model falls back to the provider default.
func New(ctx context.Context, provider, model string) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		if model == "" {
			model = defaultGeminiModel
		}
		return NewGeminiClient(ctx, model)
	case "groq":
		if model == "" {
			model = defaultGroqModel
		}
		return NewGroqClient("", model)
	case "ollama":
		if model == "" {
			model = defaultOllamaModel
		}
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaClient(host, model)
	case "fake":
		return NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}

// promptWithInput appends the marshaled input to the prompt the way every
// provider sends it.
func promptWithInput(prompt string, input any) string {
	in, _ := json.MarshalIndent(input, "", "  ")
	return prompt + "\n\n[INPUT JSON]\n" + string(in)
}
