package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when a job or artifact does not exist.
var ErrNotFound = errors.New("store: not found")

// Store keeps jobs and analysis artifacts. With a database handle it runs on
// Postgres; otherwise everything lives in process memory and is lost on exit.
type Store struct {
	db *sql.DB

	mu     sync.RWMutex
	jobs   map[string]Job
	models map[string]*ModelSet

	schemaOnce sync.Once
	schemaErr  error

	modelCache *lru.Cache[string, ModelSet]
}

// New creates an in-memory store.
func New() *Store {
	return &Store{
		jobs:   make(map[string]Job),
		models: make(map[string]*ModelSet),
	}
}

// NewPostgres connects to Postgres and verifies the connection.
func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, ModelSet](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, modelCache: cache}, nil
}

// Open returns a Postgres store for a non-empty DSN and falls back to the
// in-memory store when the DSN is empty or the connection fails.
func Open(dsn string) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New()
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("store: postgres unavailable, using memory: %v", err)
		return New()
	}
	return s
}

// Close releases the database handle if there is one.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateJob inserts a job and returns it with ID and CreatedAt filled in.
func (s *Store) CreateJob(ctx context.Context, job Job) (Job, error) {
	if s.db != nil {
		return s.createJobDB(ctx, job)
	}
	return s.createJobMem(job)
}

// Job fetches a job by ID, ErrNotFound if absent.
func (s *Store) Job(ctx context.Context, id string) (Job, error) {
	if s.db != nil {
		return s.jobDB(ctx, id)
	}
	return s.jobMem(id)
}

// SetJobReadme records the readme path discovered during analysis.
func (s *Store) SetJobReadme(ctx context.Context, id, readmeURL string) error {
	if s.db != nil {
		return s.setJobReadmeDB(ctx, id, readmeURL)
	}
	return s.setJobReadmeMem(id, readmeURL)
}

// PutModel upserts one analysis artifact for a job.
func (s *Store) PutModel(ctx context.Context, jobID string, kind Kind, data json.RawMessage) error {
	if s.db != nil {
		err := s.putModelDB(ctx, jobID, kind, data)
		if err == nil && s.modelCache != nil {
			s.modelCache.Remove(jobID)
		}
		return err
	}
	return s.putModelMem(jobID, kind, data)
}

// Models returns every stored artifact for a job. A job with no artifacts
// yields an empty set, not an error.
func (s *Store) Models(ctx context.Context, jobID string) (ModelSet, error) {
	if s.db != nil {
		if s.modelCache != nil {
			if cached, ok := s.modelCache.Get(jobID); ok {
				return cached, nil
			}
		}
		set, err := s.modelsDB(ctx, jobID)
		if err != nil {
			return ModelSet{}, err
		}
		if s.modelCache != nil {
			s.modelCache.Add(jobID, set)
		}
		return set, nil
	}
	return s.modelsMem(jobID)
}
