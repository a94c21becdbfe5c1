package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/services"
	"curator/internal/services/ytdlp"
)

type stubExecutor struct {
	files map[string]string
	err   error
	delay time.Duration

	calls int
	args  []string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, workDir string) error {
	s.calls++
	s.args = append([]string(nil), args...)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for name, contents := range s.files {
		if err := os.WriteFile(filepath.Join(workDir, name), []byte(contents), 0o644); err != nil {
			return err
		}
	}
	return s.err
}

func fetchConfig() config.Fetch {
	cfg := config.Default()
	return cfg.Fetch
}

const sampleInfoJSON = `{
  "id": "abc123",
  "title": "Go Generics Deep Dive",
  "webpage_url": "https://www.youtube.com/watch?v=abc123",
  "description": "A long look at type parameters.",
  "upload_date": "20240110",
  "duration": 1845.0
}`

const sampleVTT = "WEBVTT\nKind: captions\nLanguage: en\n\n00:00:00.000 --> 00:00:02.000\nhello hello world\n"

func TestListParsesMetadataAndCaptions(t *testing.T) {
	exec := &stubExecutor{files: map[string]string{
		"abc123.info.json": sampleInfoJSON,
		"abc123.en.vtt":    sampleVTT,
	}}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, err := client.List(context.Background(), "https://www.youtube.com/@chan", ytdlp.Request{
		LookbackDays: 7,
		MaxItems:     20,
		SubtitleLang: "en",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry.ID != "abc123" || entry.Title != "Go Generics Deep Dive" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.URL != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("url = %q", entry.URL)
	}
	if entry.DurationSeconds != 1845 {
		t.Fatalf("duration = %d", entry.DurationSeconds)
	}
	if entry.UploadDate == nil || !entry.UploadDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("upload date = %v", entry.UploadDate)
	}
	if entry.Captions == "" {
		t.Fatal("expected captions to be read")
	}
}

func TestListSkipsPlaylistAndMalformedFiles(t *testing.T) {
	exec := &stubExecutor{files: map[string]string{
		"abc123.info.json":   sampleInfoJSON,
		"UCchan.info.json":   `{"_type": "playlist", "id": "UCchan", "title": "Videos"}`,
		"broken.info.json":   "{not json",
		"unrelated.en.vtt":   sampleVTT,
		"no-video-id.en.vtt": sampleVTT,
	}}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, err := client.List(context.Background(), "https://www.youtube.com/@chan", ytdlp.Request{LookbackDays: 7})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "abc123" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestListPartialSuccessWhenFilesProducedDespiteError(t *testing.T) {
	exec := &stubExecutor{
		files: map[string]string{"abc123.info.json": sampleInfoJSON},
		err:   errors.New("exit status 1"),
	}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, err := client.List(context.Background(), "https://www.youtube.com/@chan", ytdlp.Request{LookbackDays: 7})
	if err != nil {
		t.Fatalf("List should tolerate nonzero exit with files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestListFailsWhenNothingProduced(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.List(context.Background(), "https://www.youtube.com/@chan", ytdlp.Request{LookbackDays: 7})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestListEmptyOutputWithoutErrorIsNotAnError(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, err := client.List(context.Background(), "https://www.youtube.com/@quiet", ytdlp.Request{LookbackDays: 7})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestListMapsTimeout(t *testing.T) {
	exec := &stubExecutor{delay: 500 * time.Millisecond}
	cfg := fetchConfig()
	cfg.TimeoutSeconds = 1
	client, err := ytdlp.New(cfg, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.List(ctx, "https://www.youtube.com/@slow", ytdlp.Request{LookbackDays: 7})
	if !services.IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestListRequestShapesArguments(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ytdlp.New(fetchConfig(), ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := client.List(context.Background(), "https://www.youtube.com/@chan", ytdlp.Request{
		LookbackDays: 3,
		MaxItems:     5,
		SubtitleLang: "de",
	}); err != nil {
		t.Fatalf("List: %v", err)
	}

	joined := strings.Join(exec.args, " ")
	for _, want := range []string{"--skip-download", "--write-auto-sub", "--sub-lang de", "--playlist-end 5", "--ignore-errors"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, exec.args)
		}
	}
}
