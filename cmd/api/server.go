package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"reposcope/internal/agents"
	"reposcope/internal/analysis"
	"reposcope/internal/githubapi"
	"reposcope/internal/store"
)

// repoLookup is the slice of the GitHub client the analyze endpoint uses,
// kept narrow so tests can stub the metadata check.
type repoLookup interface {
	Lookup(ctx context.Context, owner, name string) (*githubapi.Repository, error)
}

type apiServer struct {
	store    *store.Store
	github   repoLookup
	analysis *analysis.Service
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/analyze/", s.handleWatch)
	mux.HandleFunc("/repo/", s.handleAsk)
	return mux
}

// handleAnalyze registers a repository for analysis. Every call creates a
// fresh job; reruns of an already analyzed repository replay its stored
// results when the stream is opened.
func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	owner, name, err := githubapi.ParseRepoURL(in.URL)
	if err != nil {
		http.Error(w, "Invalid GitHub repository URL", http.StatusBadRequest)
		return
	}

	meta, err := s.github.Lookup(r.Context(), owner, name)
	if err != nil {
		if errors.Is(err, githubapi.ErrNotPublic) {
			http.Error(w, "Repository is not public", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to reach GitHub", http.StatusBadGateway)
		return
	}

	job, err := s.store.CreateJob(r.Context(), store.Job{
		GitHubURL:     meta.HTMLURL,
		Owner:         meta.Owner.Login,
		RepoName:      meta.Name,
		Description:   meta.Description,
		DefaultBranch: meta.DefaultBranch,
	})
	if err != nil {
		http.Error(w, "Failed to save repository", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"repo_id": job.ID})
}

// handleAsk answers a question about an analyzed repository.
// Path: /repo/{uuid}/ask
func (s *apiServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/repo/")
	if !strings.HasSuffix(rest, "/ask") {
		http.NotFound(w, r)
		return
	}
	jobID := strings.TrimSuffix(rest, "/ask")
	if jobID == "" || strings.Contains(jobID, "/") {
		http.Error(w, "repository id required", http.StatusBadRequest)
		return
	}

	var in struct {
		Messages []agents.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	job, err := s.store.Job(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Repository "+jobID+" not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp, err := s.analysis.Answer(r.Context(), job, in.Messages)
	if err != nil {
		if errors.Is(err, analysis.ErrNotAnalyzed) {
			http.Error(w, "Repository model not found. Please run the analysis first.", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to generate response", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"response": resp.Response})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
