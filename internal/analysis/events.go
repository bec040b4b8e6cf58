// Package analysis orchestrates full repository analysis runs: checkout,
// model build, agent passes, persistence and progress events.
package analysis

import (
	"encoding/json"
	"fmt"

	"reposcope/internal/store"
)

// Event types in the order a fresh run emits them. A rerun of a completed
// job replays overview, entry_points, auth_analysis and data_model_analysis
// from the store before the readme and completed events.
const (
	EventStart       = "start"
	EventReadme      = "readme"
	EventOverview    = "overview"
	EventEntryPoints = "entry_points"
	EventAuth        = "auth_analysis"
	EventDataModel   = "data_model_analysis"
	EventCompleted   = "completed"
	EventError       = "error"
)

// Event is one progress message of an analysis stream. Agent results travel
// in Message as a JSON-encoded string, which is the shape API clients parse.
type Event struct {
	EventType     string `json:"event_type"`
	RepoID        string `json:"repo_id,omitempty"`
	Name          string `json:"name,omitempty"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Owner         string `json:"owner,omitempty"`
	Link          string `json:"link,omitempty"`
	Message       any    `json:"message,omitempty"`
}

// ReadmePayload is the message of a readme event. Readme holds the path of
// the readme file relative to the repository root, null when there is none.
type ReadmePayload struct {
	HasReadme bool    `json:"has_readme"`
	Readme    *string `json:"readme"`
}

func startEvent(job store.Job) Event {
	return Event{
		EventType:     EventStart,
		RepoID:        job.ID,
		Name:          job.RepoName,
		DefaultBranch: job.DefaultBranch,
		Owner:         job.Owner,
		Link:          job.GitHubURL,
	}
}

func readmeEvent(rel string, ok bool) Event {
	payload := ReadmePayload{}
	if ok {
		payload.HasReadme = true
		payload.Readme = &rel
	}
	return Event{EventType: EventReadme, Message: payload}
}

func modelEvent(eventType string, raw json.RawMessage) Event {
	return Event{EventType: eventType, Message: string(raw)}
}

func completedEvent(jobID string) Event {
	return Event{EventType: EventCompleted, RepoID: jobID}
}

func errorEvent(jobID string, err error) Event {
	return Event{
		EventType: EventError,
		RepoID:    jobID,
		Message:   fmt.Sprintf("Analysis failed: %v", err),
	}
}
