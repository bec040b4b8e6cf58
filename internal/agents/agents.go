package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
)

const maxToolIterations = 8

// runAgent drives one tool loop for a phase and decodes the final payload.
func runAgent[T any](ctx context.Context, cli llm.LLMClient, phase string, tools *Registry, spec StructuredPromptSpec, input any) (T, error) {
	var out T
	ctx = llm.WithPhase(ctx, phase)
	loop := &ToolLoop{LLM: cli, Tools: tools, MaxIters: maxToolIterations}
	build := StructuredPromptBuilder(ApplyPresets(spec, PresetStrictJSON(), PresetNoInvent(), PresetToolProtocol()))
	raw, _, err := loop.Run(ctx, input, build)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("agents: decode %s result: %w", phase, err)
	}
	return out, nil
}

// sectionInput is the shared context for the agents that run after the
// overview: its summary plus the directory and file listings.
type sectionInput struct {
	RepoSummary string   `json:"repoSummary"`
	Directories []string `json:"directories"`
	Files       []string `json:"files"`
}

func newSectionInput(repo *repomodel.Repo, summary string) sectionInput {
	files := make([]string, 0, len(repo.Files))
	for _, f := range repo.Files {
		files = append(files, f.ToPrompt())
	}
	return sectionInput{RepoSummary: summary, Directories: repo.Directories, Files: files}
}
