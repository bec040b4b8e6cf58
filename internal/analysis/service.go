package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"reposcope/internal/agents"
	"reposcope/internal/analyzer"
	"reposcope/internal/archive"
	"reposcope/internal/llm"
	"reposcope/internal/repofetch"
	"reposcope/internal/repomodel"
	"reposcope/internal/safeio"
	"reposcope/internal/store"
)

// ErrNotAnalyzed is returned by Answer when no repository model has been
// stored for the job yet.
var ErrNotAnalyzed = errors.New("analysis: repository has not been analyzed yet")

// Service ties the fetcher, the agents and the stores together. Archive is
// an optional mirror of the persisted artifacts; nil disables it.
type Service struct {
	Store   *store.Store
	Archive *archive.Store
	LLM     llm.LLMClient
	Fetcher *repofetch.Fetcher
}

// Run streams one analysis through emit. Jobs whose five artifacts are all
// stored replay them without touching the model again; anything else clones
// the repository, builds the model and runs the agents. Failures surface as
// a final error event instead of an error return so stream consumers always
// get a terminal message.
func (s *Service) Run(ctx context.Context, job store.Job, emit func(Event)) {
	emit(startEvent(job))

	set, err := s.Store.Models(ctx, job.ID)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}
	if set.Complete() {
		s.replay(job, set, emit)
		return
	}
	s.fresh(ctx, job, emit)
}

func (s *Service) replay(job store.Job, set store.ModelSet, emit func(Event)) {
	emit(modelEvent(EventOverview, set.Overview))
	emit(modelEvent(EventEntryPoints, set.EntryPoints))
	emit(modelEvent(EventAuth, set.Auth))
	emit(modelEvent(EventDataModel, set.DataModel))

	// The checkout may have been cleaned up since the original run, in
	// which case the readme event degrades to has_readme=false.
	rel, ok := analyzer.FindReadme(s.Fetcher.Path(job.Owner, job.RepoName))
	emit(readmeEvent(rel, ok))

	emit(completedEvent(job.ID))
}

func (s *Service) fresh(ctx context.Context, job store.Job, emit func(Event)) {
	dir, err := s.Fetcher.Ensure(ctx, job.GitHubURL, job.DefaultBranch, job.Owner, job.RepoName)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}

	rel, ok := analyzer.FindReadme(dir)
	emit(readmeEvent(rel, ok))
	if ok {
		if err := s.Store.SetJobReadme(ctx, job.ID, rel); err != nil {
			log.Printf("analysis: record readme for %s: %v", job.ID, err)
		}
	}

	repo, err := analyzer.Build(dir)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}
	raw, err := json.Marshal(repo)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}
	if err := s.persist(ctx, job.ID, store.KindRepo, raw); err != nil {
		emit(errorEvent(job.ID, err))
		return
	}

	fsys, err := safeio.New(dir)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}

	overview, err := agents.RepoOverview(ctx, s.LLM, fsys, repo)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}
	ovRaw, err := json.Marshal(overview)
	if err != nil {
		emit(errorEvent(job.ID, err))
		return
	}
	emit(modelEvent(EventOverview, ovRaw))
	if err := s.persist(ctx, job.ID, store.KindOverview, ovRaw); err != nil {
		emit(errorEvent(job.ID, err))
		return
	}

	// The three section agents only need the overview summary and are
	// independent of each other, so they run concurrently. Results are
	// persisted and emitted in a fixed order once all of them finish.
	var (
		wg                     sync.WaitGroup
		eps                    agents.EntryPoints
		auth                   agents.AuthAnalysis
		dm                     agents.DataModelAnalysis
		epsErr, authErr, dmErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		eps, epsErr = agents.EntryPointsReview(ctx, s.LLM, fsys, repo, overview.Summary)
	}()
	go func() {
		defer wg.Done()
		auth, authErr = agents.AuthReview(ctx, s.LLM, fsys, repo, overview.Summary)
	}()
	go func() {
		defer wg.Done()
		dm, dmErr = agents.DataModelReview(ctx, s.LLM, fsys, repo, overview.Summary)
	}()
	wg.Wait()
	if err := errors.Join(epsErr, authErr, dmErr); err != nil {
		emit(errorEvent(job.ID, err))
		return
	}

	steps := []struct {
		event string
		kind  store.Kind
		value any
	}{
		{EventEntryPoints, store.KindEntryPoints, eps},
		{EventAuth, store.KindAuth, auth},
		{EventDataModel, store.KindDataModel, dm},
	}
	for _, st := range steps {
		raw, err := json.Marshal(st.value)
		if err != nil {
			emit(errorEvent(job.ID, err))
			return
		}
		if err := s.persist(ctx, job.ID, st.kind, raw); err != nil {
			emit(errorEvent(job.ID, err))
			return
		}
		emit(modelEvent(st.event, raw))
	}

	emit(completedEvent(job.ID))
}

// persist writes one artifact to the primary store and mirrors it to the
// archive. Archive failures are logged rather than propagated since the
// store already holds the data.
func (s *Service) persist(ctx context.Context, jobID string, kind store.Kind, data []byte) error {
	if err := s.Store.PutModel(ctx, jobID, kind, data); err != nil {
		return err
	}
	if s.Archive != nil {
		if err := s.Archive.PutModel(ctx, jobID, kind, data); err != nil {
			log.Printf("analysis: archive %s/%s: %v", jobID, kind, err)
		}
	}
	return nil
}

// Answer runs the question agent against the stored repository model,
// re-cloning the checkout if it is gone so the agent's file tools work.
func (s *Service) Answer(ctx context.Context, job store.Job, conversation []agents.Message) (agents.QuestionResponse, error) {
	set, err := s.Store.Models(ctx, job.ID)
	if err != nil {
		return agents.QuestionResponse{}, err
	}
	rawRepo := set.Repo
	if len(rawRepo) == 0 && s.Archive != nil {
		rawRepo, err = s.Archive.Model(ctx, job.ID, store.KindRepo)
		if err != nil && !errors.Is(err, archive.ErrNotFound) {
			return agents.QuestionResponse{}, err
		}
	}
	if len(rawRepo) == 0 {
		return agents.QuestionResponse{}, ErrNotAnalyzed
	}

	var repo repomodel.Repo
	if err := json.Unmarshal(rawRepo, &repo); err != nil {
		return agents.QuestionResponse{}, fmt.Errorf("analysis: decode repository model: %w", err)
	}

	dir, err := s.Fetcher.Ensure(ctx, job.GitHubURL, job.DefaultBranch, job.Owner, job.RepoName)
	if err != nil {
		return agents.QuestionResponse{}, err
	}
	fsys, err := safeio.New(dir)
	if err != nil {
		return agents.QuestionResponse{}, err
	}
	return agents.AnswerQuestion(ctx, s.LLM, fsys, &repo, conversation)
}
