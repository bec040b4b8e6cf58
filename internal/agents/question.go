package agents

import (
	"context"

	"reposcope/internal/llm"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
)

type questionInput struct {
	Repo         string    `json:"repo"`
	Conversation []Message `json:"conversation"`
}

// AnswerQuestion answers a follow-up question about an analyzed repository
// using the full model and the conversation so far. The last message in the
// conversation is the question to answer.
func AnswerQuestion(ctx context.Context, cli llm.LLMClient, fsys *safeio.FS, repo *repomodel.Repo, conversation []Message) (QuestionResponse, error) {
	spec := StructuredPromptSpec{
		Purpose: "You are the Question Master, an expert AI assistant specialized in analyzing " +
			"and explaining code repositories. Answer the latest user question in the " +
			"conversation using the repository model in the input.",
		Background: "You have access to the repository's structure, files, functions and " +
			"metadata. Use the tools to get detailed information about specific files or " +
			"functions when needed.",
		OutputFields: []PromptField{
			{Name: "response", Type: "string", Required: true, Description: "Markdown answer to the latest user question"},
		},
		Rules: []string{
			"Be precise and helpful in your responses.",
			"When referencing files or functions, be specific about their locations.",
			"If you cannot find information about something, say so clearly.",
		},
		OutputFormat: "A single JSON object with the fields above.",
		Language:     "English",
	}
	in := questionInput{Repo: repo.ToPrompt(), Conversation: conversation}
	return runAgent[QuestionResponse](ctx, cli, "question", NewRepoTools(fsys, repo), spec, in)
}
