// Package store persists analyze jobs and their analysis artifacts, either
// in Postgres or in process memory when no DSN is configured.
package store

import (
	"encoding/json"
	"time"
)

// Job is one analysis request for a GitHub repository.
type Job struct {
	ID            string    `json:"id"`
	GitHubURL     string    `json:"github_url"`
	Owner         string    `json:"owner"`
	RepoName      string    `json:"repo_name"`
	Description   string    `json:"description"`
	DefaultBranch string    `json:"default_branch"`
	ReadmeURL     string    `json:"readme_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Kind names one persisted analysis artifact.
type Kind string

const (
	KindRepo        Kind = "repo"
	KindOverview    Kind = "overview"
	KindAuth        Kind = "auth"
	KindDataModel   Kind = "data_model"
	KindEntryPoints Kind = "entry_points"
)

// Kinds lists every artifact kind in the order a full analysis produces them.
var Kinds = []Kind{KindRepo, KindOverview, KindAuth, KindDataModel, KindEntryPoints}

// ModelSet holds every stored artifact for a job. An empty entry means that
// artifact has not been produced yet.
type ModelSet struct {
	Repo        json.RawMessage `json:"repo,omitempty"`
	Overview    json.RawMessage `json:"overview,omitempty"`
	Auth        json.RawMessage `json:"auth,omitempty"`
	DataModel   json.RawMessage `json:"data_model,omitempty"`
	EntryPoints json.RawMessage `json:"entry_points,omitempty"`
}

// Complete reports whether every artifact of a full analysis is present.
func (m ModelSet) Complete() bool {
	for _, k := range Kinds {
		if len(m.Get(k)) == 0 {
			return false
		}
	}
	return true
}

// Get returns the artifact stored under kind.
func (m ModelSet) Get(kind Kind) json.RawMessage {
	switch kind {
	case KindRepo:
		return m.Repo
	case KindOverview:
		return m.Overview
	case KindAuth:
		return m.Auth
	case KindDataModel:
		return m.DataModel
	case KindEntryPoints:
		return m.EntryPoints
	}
	return nil
}

// Set stores data under kind. Unknown kinds are ignored.
func (m *ModelSet) Set(kind Kind, data json.RawMessage) {
	switch kind {
	case KindRepo:
		m.Repo = data
	case KindOverview:
		m.Overview = data
	case KindAuth:
		m.Auth = data
	case KindDataModel:
		m.DataModel = data
	case KindEntryPoints:
		m.EntryPoints = data
	}
}
