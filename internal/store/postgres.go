package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS analyze_jobs (
  id UUID PRIMARY KEY,
  github_url TEXT NOT NULL,
  owner TEXT NOT NULL,
  repo_name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  default_branch TEXT NOT NULL DEFAULT 'main',
  readme_url TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analyze_jobs_github_url ON analyze_jobs (github_url);
CREATE INDEX IF NOT EXISTS idx_analyze_jobs_owner ON analyze_jobs (owner);

CREATE TABLE IF NOT EXISTS repo_models (
  id UUID PRIMARY KEY,
  analyze_job_id UUID NOT NULL UNIQUE REFERENCES analyze_jobs (id),
  model_data TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS overview_models (
  id UUID PRIMARY KEY,
  analyze_job_id UUID NOT NULL UNIQUE REFERENCES analyze_jobs (id),
  overview_data TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS auth_models (
  id UUID PRIMARY KEY,
  analyze_job_id UUID NOT NULL UNIQUE REFERENCES analyze_jobs (id),
  auth_data TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS data_models (
  id UUID PRIMARY KEY,
  analyze_job_id UUID NOT NULL UNIQUE REFERENCES analyze_jobs (id),
  data_structure TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS entry_points_models (
  id UUID PRIMARY KEY,
  analyze_job_id UUID NOT NULL UNIQUE REFERENCES analyze_jobs (id),
  usage_data TEXT,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

// kindTable maps an artifact kind to its table and payload column. The
// returned names feed Sprintf'd SQL, so they come only from this switch.
func kindTable(kind Kind) (table, column string, ok bool) {
	switch kind {
	case KindRepo:
		return "repo_models", "model_data", true
	case KindOverview:
		return "overview_models", "overview_data", true
	case KindAuth:
		return "auth_models", "auth_data", true
	case KindDataModel:
		return "data_models", "data_structure", true
	case KindEntryPoints:
		return "entry_points_models", "usage_data", true
	}
	return "", "", false
}

func (s *Store) createJobDB(ctx context.Context, job Job) (Job, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Job{}, err
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.DefaultBranch == "" {
		job.DefaultBranch = "main"
	}
	job.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO analyze_jobs (id, github_url, owner, repo_name, description, default_branch, readme_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		job.ID, job.GitHubURL, job.Owner, job.RepoName, job.Description, job.DefaultBranch, job.ReadmeURL, job.CreatedAt)
	if err != nil {
		return Job{}, fmt.Errorf("store: create job: %w", err)
	}
	return job, nil
}

func (s *Store) jobDB(ctx context.Context, id string) (Job, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Job{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, ErrNotFound
	}
	var job Job
	err := s.db.QueryRowContext(ctx, `
SELECT id, github_url, owner, repo_name, description, default_branch, readme_url, created_at
FROM analyze_jobs WHERE id = $1`, id).Scan(
		&job.ID, &job.GitHubURL, &job.Owner, &job.RepoName,
		&job.Description, &job.DefaultBranch, &job.ReadmeURL, &job.CreatedAt)
	if err == sql.ErrNoRows {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("store: job %s: %w", id, err)
	}
	return job, nil
}

func (s *Store) setJobReadmeDB(ctx context.Context, id, readmeURL string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE analyze_jobs SET readme_url = $2 WHERE id = $1`, id, readmeURL)
	if err != nil {
		return fmt.Errorf("store: set readme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) putModelDB(ctx context.Context, jobID string, kind Kind, data json.RawMessage) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	table, column, ok := kindTable(kind)
	if !ok {
		return fmt.Errorf("store: unknown artifact kind %q", kind)
	}
	q := fmt.Sprintf(`
INSERT INTO %s (id, analyze_job_id, %s, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (analyze_job_id)
DO UPDATE SET %s = EXCLUDED.%s, updated_at = NOW()`, table, column, column, column)
	_, err := s.db.ExecContext(ctx, q, uuid.NewString(), jobID, string(data))
	if err != nil {
		return fmt.Errorf("store: put %s model: %w", kind, err)
	}
	return nil
}

func (s *Store) modelsDB(ctx context.Context, jobID string) (ModelSet, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return ModelSet{}, err
	}
	// Anchored on repo_models: artifacts only exist once the repo model has
	// been stored, so a missing repo row means no analysis yet.
	row := s.db.QueryRowContext(ctx, `
SELECT r.model_data, o.overview_data, a.auth_data, d.data_structure, e.usage_data
FROM repo_models r
LEFT JOIN overview_models o ON o.analyze_job_id = r.analyze_job_id
LEFT JOIN auth_models a ON a.analyze_job_id = r.analyze_job_id
LEFT JOIN data_models d ON d.analyze_job_id = r.analyze_job_id
LEFT JOIN entry_points_models e ON e.analyze_job_id = r.analyze_job_id
WHERE r.analyze_job_id = $1`, jobID)

	var repo, overview, auth, dataModel, entryPoints sql.NullString
	err := row.Scan(&repo, &overview, &auth, &dataModel, &entryPoints)
	if err == sql.ErrNoRows {
		return ModelSet{}, nil
	}
	if err != nil {
		return ModelSet{}, fmt.Errorf("store: models for %s: %w", jobID, err)
	}
	var set ModelSet
	set.Repo = rawOrNil(repo)
	set.Overview = rawOrNil(overview)
	set.Auth = rawOrNil(auth)
	set.DataModel = rawOrNil(dataModel)
	set.EntryPoints = rawOrNil(entryPoints)
	return set, nil
}

func rawOrNil(v sql.NullString) json.RawMessage {
	if !v.Valid || v.String == "" {
		return nil
	}
	return json.RawMessage(v.String)
}
