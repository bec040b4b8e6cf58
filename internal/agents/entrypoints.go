package agents

import (
	"context"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

// EntryPointsReview explains how a user interacts with the codebase.
func EntryPointsReview(ctx context.Context, cli llm.LLMClient, fsys *safeio.FS, repo *repomodel.Repo, summary string) (EntryPoints, error) {
	spec := StructuredPromptSpec{
		Purpose: "You are an expert programmer and software engineer. Analyze the repository " +
			"described in the input and explain how a user can interact with the codebase.",
		Background: "The input holds the repository summary plus its directory and file " +
			"listings. If you need more data about a specific file or function, use the tools " +
			"provided to you.",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Markdown summary of all entry points"},
			{Name: "relevantFiles", Type: "array", Required: true, Description: "Files the entry points were found in; each item has fileName and explanation"},
		},
		Rules: []string{
			"For a web app, list all API endpoints and their descriptions.",
			"For a CLI app, list all commands and their descriptions.",
			"For a library, list its public functions and their descriptions.",
			"For a framework, tool or service, list its entry points and their descriptions.",
			"For each entry point, explain how to interact with it (for endpoints, the request types).",
			"For each entry point, name the file it was found in and explain why that file was included.",
		},
		OutputFormat: "A single JSON object with the fields above.",
		Language:     "English",
	}
	in := newSectionInput(repo, summary)
	return runAgent[EntryPoints](ctx, cli, "entry_points", NewRepoTools(fsys, repo), spec, in)
}
