package agents

import (
	"context"
	"encoding/json"

	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

// NewRepoTools builds the registry the analysis agents share: file body and
// function snippet lookups over the built model.
func NewRepoTools(fsys *safeio.FS, repo *repomodel.Repo) *Registry {
	return NewRegistry(
		&fileContentTool{fsys: fsys, repo: repo},
		&functionSnippetTool{fsys: fsys, repo: repo},
	)
}

type fileContentTool struct {
	fsys *safeio.FS
	repo *repomodel.Repo
}

func (t *fileContentTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "get_file_description",
		Description: "Get the full content of a file",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {"type": "string", "description": "The path to the file to read"}
			},
			"required": ["file_path"],
			"additionalProperties": false
		}`),
		OutputSchema: json.RawMessage(`{"type": "string"}`),
	}
}

func (t *fileContentTool) Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	return json.Marshal(repomodel.FileContent(t.fsys, t.repo, in.FilePath))
}

type functionSnippetTool struct {
	fsys *safeio.FS
	repo *repomodel.Repo
}

func (t *functionSnippetTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "get_function_description",
		Description: "Get description of the function from a specific file",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"function_name": {"type": "string", "description": "The name of the function to analyze"},
				"file_name": {"type": "string", "description": "The name of the file containing the function"}
			},
			"required": ["function_name", "file_name"],
			"additionalProperties": false
		}`),
		OutputSchema: json.RawMessage(`{"type": "string"}`),
	}
}

func (t *functionSnippetTool) Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in struct {
		FunctionName string `json:"function_name"`
		FileName     string `json:"file_name"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	return json.Marshal(repomodel.FunctionSnippet(t.fsys, t.repo, in.FileName, in.FunctionName))
}
