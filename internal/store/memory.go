package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) createJobMem(job Job) (Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.DefaultBranch == "" {
		job.DefaultBranch = "main"
	}
	job.CreatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return job, nil
}

func (s *Store) jobMem(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[strings.TrimSpace(id)]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (s *Store) setJobReadmeMem(id, readmeURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.ReadmeURL = readmeURL
	s.jobs[id] = job
	return nil
}

func (s *Store) putModelMem(jobID string, kind Kind, data json.RawMessage) error {
	if _, _, ok := kindTable(kind); !ok {
		return fmt.Errorf("store: unknown artifact kind %q", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return ErrNotFound
	}
	set, ok := s.models[jobID]
	if !ok {
		set = &ModelSet{}
		s.models[jobID] = set
	}
	// Copy so later mutations of the caller's buffer cannot leak in.
	set.Set(kind, json.RawMessage(strings.Clone(string(data))))
	return nil
}

func (s *Store) modelsMem(jobID string) (ModelSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.models[jobID]
	if !ok {
		return ModelSet{}, nil
	}
	return *set, nil
}
