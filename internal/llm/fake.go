package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per phase for
// offline runs and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch PhaseFrom(ctx) {
	case "overview":
		obj = map[string]any{
			"summary": "fake overview summary",
			"keyFunctionality": []any{
				map[string]any{
					"veryShortDescription": "fake feature",
					"description":          "fake feature description",
					"referenceFile":        "main.py",
					"explanation":          "fake explanation",
				},
			},
		}
	case "auth":
		obj = map[string]any{
			"summary": "fake auth summary",
			"relevantFiles": []any{
				map[string]any{"fileName": "auth.py", "explanation": "fake explanation"},
			},
		}
	case "data_model":
		obj = map[string]any{
			"summary": "fake data model summary",
			"relevantFiles": []any{
				map[string]any{"filePath": "models.py", "cleanName": "Models", "explanation": "fake explanation"},
			},
		}
	case "entry_points":
		obj = map[string]any{
			"summary": "fake entry points summary",
			"relevantFiles": []any{
				map[string]any{"fileName": "main.py", "explanation": "fake explanation"},
			},
		}
	case "question":
		obj = map[string]any{"response": "fake answer"}
	default:
		obj = map[string]any{}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
