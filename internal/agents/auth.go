package agents

import (
	"context"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

// AuthReview analyzes how authentication and authorization work in the
// repository.
func AuthReview(ctx context.Context, cli llm.LLMClient, fsys *safeio.FS, repo *repomodel.Repo, summary string) (AuthAnalysis, error) {
	spec := StructuredPromptSpec{
		Purpose: "You are an expert programmer and software engineer. Analyze the repository " +
			"described in the input and provide an auth analysis: authentication methods, " +
			"authentication flow, security measures, access control, session management, " +
			"authorization mechanisms and security vulnerabilities.",
		Background: "The input holds the repository summary plus its directory and file " +
			"listings. If you need more data about a specific file or function, use the tools " +
			"provided to you.",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Markdown auth analysis of the repository"},
			{Name: "relevantFiles", Type: "array", Required: true, Description: "Files the analysis is based on; each item has fileName and explanation"},
		},
		Rules: []string{
			"Look at authentication routes, middleware, user models, session handling, and security implementations.",
			"For each finding, name the file it came from and explain why that file was included.",
		},
		OutputFormat: "A single JSON object with the fields above.",
		Language:     "English",
	}
	in := newSectionInput(repo, summary)
	return runAgent[AuthAnalysis](ctx, cli, "auth", NewRepoTools(fsys, repo), spec, in)
}
