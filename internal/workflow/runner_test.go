package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/fetch"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/store"
	"curator/internal/testsupport"
	"curator/internal/workflow"
)

type stubFetcher struct {
	candidates map[string][]content.Candidate
	errs       map[string]error
}

func (s *stubFetcher) Fetch(ctx context.Context, source *content.Source, req fetch.Request) ([]content.Candidate, error) {
	if err := s.errs[source.Name]; err != nil {
		return nil, err
	}
	return s.candidates[source.Name], nil
}

type stubRater struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubRater) Rate(ctx context.Context, input string) (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return "B Tier: (Consume Original When Time Allows)", nil
}

type env struct {
	cfg    *config.Config
	store  *store.Store
	runner *workflow.Runner
}

func newEnv(t *testing.T, opts ...workflow.Option) *env {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	runner, err := workflow.New(cfg, st, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("workflow.New: %v", err)
	}
	return &env{cfg: cfg, store: st, runner: runner}
}

func (e *env) addSource(t *testing.T, name string) *content.Source {
	t.Helper()
	source, err := e.store.AddSource(context.Background(), name, content.SourceTypeVideoChannel, "https://example.com/"+name)
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	return source
}

func registryWith(fetcher fetch.Fetcher) *fetch.Registry {
	registry := &fetch.Registry{}
	registry.Register(content.SourceTypeVideoChannel, fetcher)
	return registry
}

func TestFetchPassContinuesPastFailingSource(t *testing.T) {
	fetcher := &stubFetcher{
		candidates: map[string][]content.Candidate{
			"good": {
				{Title: "One", URL: "https://example.com/1"},
				{Title: "Two", URL: "https://example.com/2"},
			},
		},
		errs: map[string]error{
			"bad": services.Wrap(services.ErrTimeout, "fetch", "invoke yt-dlp", "timed out", context.DeadlineExceeded),
		},
	}
	e := newEnv(t, workflow.WithRegistry(registryWith(fetcher)))
	e.addSource(t, "bad")
	e.addSource(t, "good")

	summary, err := e.runner.FetchPass(context.Background(), workflow.FetchOptions{})
	if err != nil {
		t.Fatalf("FetchPass: %v", err)
	}
	if summary.Sources != 2 || summary.NewItems != 2 || summary.Failures != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	logs, err := e.store.RecentFetchLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentFetchLogs: %v", err)
	}
	var failed, succeeded int
	for _, entry := range logs {
		if entry.Success {
			succeeded++
		} else {
			failed++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Fatalf("fetch logs: %d failed, %d succeeded", failed, succeeded)
	}
}

func TestFetchPassUnknownSourceName(t *testing.T) {
	e := newEnv(t, workflow.WithRegistry(registryWith(&stubFetcher{})))

	_, err := e.runner.FetchPass(context.Background(), workflow.FetchOptions{SourceName: "missing"})
	if !services.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRatePassAppliesRatingsAndPaces(t *testing.T) {
	rater := &stubRater{responses: []string{
		"S Tier: (Must Consume Original Content Immediately)\n\nExplanation:\n- groundbreaking",
		"B Tier: (Consume Original When Time Allows)",
	}}
	e := newEnv(t, workflow.WithRater(rater))
	e.cfg.Rating.DelaySeconds = 2

	source := e.addSource(t, "chan")
	ctx := context.Background()
	for _, url := range []string{"https://example.com/1", "https://example.com/2"} {
		if _, err := e.store.InsertItem(ctx, &content.Item{SourceID: source.ID, Title: url, URL: url}); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}

	var sleeps []time.Duration
	e.runner.SetSleepFunc(func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	})

	summary, err := e.runner.RatePass(ctx, workflow.RateOptions{})
	if err != nil {
		t.Fatalf("RatePass: %v", err)
	}
	if summary.Attempted != 2 || summary.Rated != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	// Delay between consecutive calls, skipped after the last item.
	if len(sleeps) != 1 || sleeps[0] != 2*time.Second {
		t.Fatalf("sleeps = %v", sleeps)
	}

	item, err := e.store.ItemByURL(ctx, "https://example.com/2")
	if err != nil {
		t.Fatalf("ItemByURL: %v", err)
	}
	if item.Rating != content.RatingB || item.State() != content.StateRated {
		t.Fatalf("item = %+v", item)
	}
	if item.RatedAt == nil || item.RatingReasoning == "" {
		t.Fatal("rating fields incomplete")
	}
}

func TestRatePassLeavesItemUnratedOnParseFailure(t *testing.T) {
	rater := &stubRater{responses: []string{"I refuse to answer in the expected format."}}
	e := newEnv(t, workflow.WithRater(rater))

	source := e.addSource(t, "chan")
	ctx := context.Background()
	if _, err := e.store.InsertItem(ctx, &content.Item{SourceID: source.ID, Title: "x", URL: "https://example.com/x"}); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	summary, err := e.runner.RatePass(ctx, workflow.RateOptions{})
	if err != nil {
		t.Fatalf("RatePass: %v", err)
	}
	if summary.Failed != 1 || summary.Rated != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	item, err := e.store.ItemByURL(ctx, "https://example.com/x")
	if err != nil {
		t.Fatalf("ItemByURL: %v", err)
	}
	if item.State() != content.StateUnrated {
		t.Fatalf("state = %s, want unrated for retry on a later run", item.State())
	}
}

func TestRatePassContinuesPastTransportFailure(t *testing.T) {
	rater := &stubRater{
		errs: []error{services.Wrap(services.ErrTimeout, "rate", "invoke fabric", "timed out", errors.New("deadline"))},
		responses: []string{
			"",
			"A Tier: (Should Consume Original Content)",
		},
	}
	e := newEnv(t, workflow.WithRater(rater))

	source := e.addSource(t, "chan")
	ctx := context.Background()
	for _, url := range []string{"https://example.com/1", "https://example.com/2"} {
		if _, err := e.store.InsertItem(ctx, &content.Item{SourceID: source.ID, Title: url, URL: url}); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}

	summary, err := e.runner.RatePass(ctx, workflow.RateOptions{})
	if err != nil {
		t.Fatalf("RatePass: %v", err)
	}
	if summary.Failed != 1 || summary.Rated != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestDigestPassPublishesAndEmptyWindowIsQuiet(t *testing.T) {
	e := newEnv(t, workflow.WithRater(&stubRater{}))
	ctx := context.Background()

	published, err := e.runner.DigestPass(ctx, workflow.DigestOptions{})
	if err != nil {
		t.Fatalf("DigestPass (empty): %v", err)
	}
	if published != nil {
		t.Fatalf("expected nil digest for empty selection, got %+v", published)
	}

	source := e.addSource(t, "chan")
	item, err := e.store.InsertItem(ctx, &content.Item{SourceID: source.ID, Title: "x", URL: "https://example.com/x"})
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}
	if _, err := e.store.ApplyRating(ctx, item.ID, content.RatingResult{Rating: content.RatingS, Reasoning: "great"}, time.Now().UTC()); err != nil {
		t.Fatalf("ApplyRating: %v", err)
	}

	published, err = e.runner.DigestPass(ctx, workflow.DigestOptions{})
	if err != nil {
		t.Fatalf("DigestPass: %v", err)
	}
	if published == nil || published.ItemCount != 1 || published.STierCount != 1 {
		t.Fatalf("digest = %+v", published)
	}

	stored, err := e.store.ItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemByID: %v", err)
	}
	if stored.State() != content.StatePublished {
		t.Fatalf("state = %s", stored.State())
	}
}
