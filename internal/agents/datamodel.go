package agents

import (
	"context"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

// DataModelReview analyzes the repository's data models and database design.
func DataModelReview(ctx context.Context, cli llm.LLMClient, fsys *safeio.FS, repo *repomodel.Repo, summary string) (DataModelAnalysis, error) {
	spec := StructuredPromptSpec{
		Purpose: "You are an expert programmer and software engineer. Analyze the repository " +
			"described in the input and provide a data model analysis: database schema, data " +
			"models, data structures, validation rules, data flow patterns, database design " +
			"patterns and migrations.",
		Background: "The input holds the repository summary plus its directory and file " +
			"listings. If you need more data about a specific file or function, use the tools " +
			"provided to you.",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Markdown data model analysis of the repository"},
			{Name: "relevantFiles", Type: "array", Required: true, Description: "Files the analysis is based on; each item has filePath, cleanName and explanation"},
		},
		Rules: []string{
			"Look at model definitions, database configurations, migration files, and data validation logic.",
			"For each data model, name the file it was found in, give it a clean human-readable name, and explain why that file was included.",
		},
		OutputFormat: "A single JSON object with the fields above.",
		Language:     "English",
	}
	in := newSectionInput(repo, summary)
	return runAgent[DataModelAnalysis](ctx, cli, "data_model", NewRepoTools(fsys, repo), spec, in)
}
