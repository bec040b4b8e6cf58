package agents

// Result payloads for the analysis agents. The camelCase JSON keys are the
// shape the API clients already consume.

// KeyFunctionality is one feature called out by the overview agent.
type KeyFunctionality struct {
	VeryShortDescription string `json:"veryShortDescription"`
	Description          string `json:"description"`
	ReferenceFile        string `json:"referenceFile"`
	Explanation          string `json:"explanation"`
}

// OverviewSummary is the overview agent's result.
type OverviewSummary struct {
	Summary          string             `json:"summary"`
	KeyFunctionality []KeyFunctionality `json:"keyFunctionality"`
}

// RelevantFile ties an analysis claim to the file it came from.
type RelevantFile struct {
	FileName    string `json:"fileName"`
	Explanation string `json:"explanation"`
}

// AuthAnalysis is the authentication agent's result.
type AuthAnalysis struct {
	Summary       string         `json:"summary"`
	RelevantFiles []RelevantFile `json:"relevantFiles"`
}

// DataModelFile names a data model definition file.
type DataModelFile struct {
	FilePath    string `json:"filePath"`
	CleanName   string `json:"cleanName"`
	Explanation string `json:"explanation"`
}

// DataModelAnalysis is the data model agent's result.
type DataModelAnalysis struct {
	Summary       string          `json:"summary"`
	RelevantFiles []DataModelFile `json:"relevantFiles"`
}

// EntryPoints is the entry points agent's result.
type EntryPoints struct {
	Summary       string         `json:"summary"`
	RelevantFiles []RelevantFile `json:"relevantFiles"`
}

// Message is one turn of a question conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QuestionResponse is the question agent's answer.
type QuestionResponse struct {
	Response string `json:"response"`
}
