package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
)

const ollamaSystemPrompt = "Respond with a single JSON object. Do not wrap it in markdown fences."

// OllamaClient talks to a local Ollama daemon. Unlike the hosted providers
// there is no JSON response mode, so the system prompt asks for bare JSON and
// the reply is stripped of markdown fences before validation.
type OllamaClient struct {
	cli   *ollama.Ollama
	model string
	rl    *rpsLimiter
}

func NewOllamaClient(host, model string) (*OllamaClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: bad host %q: %w", host, err)
	}
	return &OllamaClient{cli: ollama.New(*u), model: model, rl: limiterFromEnv("OLLAMA")}, nil
}

func (o *OllamaClient) Name() string { return "Ollama:" + o.model }

func (o *OllamaClient) Close() error {
	o.rl.Stop()
	return nil
}

func (o *OllamaClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	full := promptWithInput(prompt, input)
	log.Printf("llm: request (%s) %d bytes", PhaseFrom(ctx), len(full))

	if err := o.rl.Acquire(ctx); err != nil {
		return nil, err
	}

	res, err := o.cli.Generate(
		o.cli.Generate.WithModel(o.model),
		o.cli.Generate.WithSystem(ollamaSystemPrompt),
		o.cli.Generate.WithPrompt(full),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama: generate: %w", err)
	}
	if !res.Done {
		return nil, errors.New("ollama: streaming response was not completed")
	}

	raw := json.RawMessage(stripFences(res.Response))
	var scratch any
	if err := json.Unmarshal(raw, &scratch); err != nil {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}

// stripFences removes a surrounding markdown code fence that smaller models
// add despite the system prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
