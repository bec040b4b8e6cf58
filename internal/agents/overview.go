package agents

import (
	"context"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

type overviewInput struct {
	Repo string `json:"repo"`
}

// RepoOverview summarizes the repository and its key functionality. It runs
// first; the other analysis agents receive its summary as context.
func RepoOverview(ctx context.Context, cli llm.LLMClient, fsys *safeio.FS, repo *repomodel.Repo) (OverviewSummary, error) {
	spec := StructuredPromptSpec{
		Purpose: "You are an expert programmer and software engineer. Analyze the repository " +
			"in the input and provide a summary and the key functionality of the repo.",
		Background: "The repository model lists every file with its description, imports and " +
			"functions. If you need more data about a specific file or function, use the tools " +
			"provided to you.",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Markdown summary of the repository"},
			{Name: "keyFunctionality", Type: "array", Required: true, Description: "Key features; each item has veryShortDescription, description, referenceFile and explanation"},
		},
		Rules: []string{
			"For each key functionality, provide a description of the feature, the file the analysis is based on, and an explanation of why that file was included.",
		},
		OutputFormat: "A single JSON object with the fields above.",
		Language:     "English",
	}
	in := overviewInput{Repo: repo.ToPrompt()}
	return runAgent[OverviewSummary](ctx, cli, "overview", NewRepoTools(fsys, repo), spec, in)
}
