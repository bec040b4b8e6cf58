package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reposcope/internal/agents"
	"reposcope/internal/llm"
	"reposcope/internal/repofetch"
	"reposcope/internal/store"
)

func seedCheckout(t *testing.T, work, owner, name string) {
	t.Helper()
	dir := filepath.Join(work, owner, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	main := "def greet(name):\n    \"\"\"Say hello.\"\"\"\n    return name\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte(main), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))
}

// testService wires a memory store, the fake model and a work dir that
// already holds the checkout, so Ensure never reaches for the network.
func testService(t *testing.T) (*Service, store.Job) {
	t.Helper()
	work := t.TempDir()
	seedCheckout(t, work, "octocat", "demo")

	st := store.New()
	job, err := st.CreateJob(context.Background(), store.Job{
		GitHubURL: "https://github.com/octocat/demo",
		Owner:     "octocat",
		RepoName:  "demo",
	})
	require.NoError(t, err)

	svc := &Service{
		Store:   st,
		LLM:     llm.NewFakeClient(),
		Fetcher: repofetch.New(work),
	}
	return svc, job
}

func eventTypes(events []Event) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	return types
}

func TestRun_FreshSequence(t *testing.T) {
	svc, job := testService(t)

	var events []Event
	svc.Run(context.Background(), job, func(ev Event) { events = append(events, ev) })

	require.Equal(t, []string{
		EventStart, EventReadme, EventOverview,
		EventEntryPoints, EventAuth, EventDataModel,
		EventCompleted,
	}, eventTypes(events))

	start := events[0]
	require.Equal(t, job.ID, start.RepoID)
	require.Equal(t, "octocat", start.Owner)
	require.Equal(t, "demo", start.Name)
	require.Equal(t, "https://github.com/octocat/demo", start.Link)

	readme, ok := events[1].Message.(ReadmePayload)
	require.True(t, ok)
	require.True(t, readme.HasReadme)
	require.NotNil(t, readme.Readme)
	require.Equal(t, "README.md", *readme.Readme)

	overview, ok := events[2].Message.(string)
	require.True(t, ok)
	require.Contains(t, overview, "fake overview summary")

	set, err := svc.Store.Models(context.Background(), job.ID)
	require.NoError(t, err)
	require.True(t, set.Complete())
	require.Contains(t, string(set.Repo), "main.py")

	stored, err := svc.Store.Job(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, "README.md", stored.ReadmeURL)
}

func TestRun_CachedReplaySequence(t *testing.T) {
	svc, job := testService(t)

	svc.Run(context.Background(), job, func(Event) {})

	var events []Event
	svc.Run(context.Background(), job, func(ev Event) { events = append(events, ev) })

	require.Equal(t, []string{
		EventStart, EventOverview, EventEntryPoints,
		EventAuth, EventDataModel, EventReadme,
		EventCompleted,
	}, eventTypes(events))

	overview, ok := events[1].Message.(string)
	require.True(t, ok)
	require.Contains(t, overview, "fake overview summary")

	readme, ok := events[5].Message.(ReadmePayload)
	require.True(t, ok)
	require.True(t, readme.HasReadme)
}

func TestRun_CheckoutFailureEmitsError(t *testing.T) {
	work := t.TempDir()
	// A plain file where the owner directory should be makes the stat
	// inside Ensure fail without ever attempting a clone.
	require.NoError(t, os.WriteFile(filepath.Join(work, "octocat"), nil, 0o644))

	st := store.New()
	job, err := st.CreateJob(context.Background(), store.Job{
		GitHubURL: "https://github.com/octocat/demo",
		Owner:     "octocat",
		RepoName:  "demo",
	})
	require.NoError(t, err)

	svc := &Service{Store: st, LLM: llm.NewFakeClient(), Fetcher: repofetch.New(work)}

	var events []Event
	svc.Run(context.Background(), job, func(ev Event) { events = append(events, ev) })

	require.Equal(t, []string{EventStart, EventError}, eventTypes(events))
	msg, ok := events[1].Message.(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(msg, "Analysis failed: "))
	require.Equal(t, job.ID, events[1].RepoID)
}

func TestAnswer_UsesStoredModel(t *testing.T) {
	svc, job := testService(t)
	svc.Run(context.Background(), job, func(Event) {})

	resp, err := svc.Answer(context.Background(), job, []agents.Message{
		{Role: "user", Content: "Where is the entry point?"},
	})
	require.NoError(t, err)
	require.Equal(t, "fake answer", resp.Response)
}

func TestAnswer_NotAnalyzed(t *testing.T) {
	svc, job := testService(t)

	_, err := svc.Answer(context.Background(), job, nil)
	require.ErrorIs(t, err, ErrNotAnalyzed)
}
