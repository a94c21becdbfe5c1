package fabric_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/services"
	"curator/internal/services/fabric"
)

type stubExecutor struct {
	output string
	err    error
	delay  time.Duration

	calls  int
	binary string
	args   []string
	stdin  string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, stdin string) (string, error) {
	s.calls++
	s.binary = binary
	s.args = append([]string(nil), args...)
	s.stdin = stdin
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.output, s.err
}

func ratingConfig() config.Rating {
	cfg := config.Default()
	return cfg.Rating
}

func TestRatePassesPatternAndStdin(t *testing.T) {
	exec := &stubExecutor{output: "B Tier: (Consume Original When Time Allows)"}
	cfg := ratingConfig()
	cfg.Pattern = "rate_content"
	cfg.Model = "gpt-4o"

	client, err := fabric.New(cfg, fabric.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	output, err := client.Rate(context.Background(), "Title: something\n")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if output != "B Tier: (Consume Original When Time Allows)" {
		t.Fatalf("unexpected output %q", output)
	}
	if exec.stdin != "Title: something\n" {
		t.Fatalf("stdin = %q", exec.stdin)
	}
	want := []string{"--pattern", "rate_content", "--model", "gpt-4o"}
	if strings.Join(exec.args, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", exec.args, want)
	}
}

func TestRateOmitsModelWhenUnset(t *testing.T) {
	exec := &stubExecutor{output: "A Tier:"}
	cfg := ratingConfig()
	cfg.Model = ""

	client, err := fabric.New(cfg, fabric.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Rate(context.Background(), "x"); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	for _, arg := range exec.args {
		if arg == "--model" {
			t.Fatalf("unexpected --model in args %v", exec.args)
		}
	}
}

func TestRateMapsTimeout(t *testing.T) {
	exec := &stubExecutor{delay: 500 * time.Millisecond}
	cfg := ratingConfig()
	cfg.TimeoutSeconds = 1

	client, err := fabric.New(cfg, fabric.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The stub honors cancellation; a parent deadline shorter than the stub
	// delay expires the run context before output is produced.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Rate(ctx, "x")
	if !services.IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRateWrapsExecutionFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1")}
	client, err := fabric.New(ratingConfig(), fabric.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Rate(context.Background(), "x")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRateRejectsEmptyOutput(t *testing.T) {
	exec := &stubExecutor{output: " \n"}
	client, err := fabric.New(ratingConfig(), fabric.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := client.Rate(context.Background(), "x"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for empty output, got %v", err)
	}
}

func TestComposeInputIncludesSectionsWhenPresent(t *testing.T) {
	item := &content.Item{
		Title:       "A Video",
		Description: "About things.",
		Transcript:  "hello world",
	}
	input := fabric.ComposeInput(item)
	for _, want := range []string{"Title: A Video", "Description: About things.", "Transcript: hello world"} {
		if !strings.Contains(input, want) {
			t.Fatalf("input missing %q:\n%s", want, input)
		}
	}
}

func TestComposeInputSkipsAbsentSectionsAndClipsDescription(t *testing.T) {
	item := &content.Item{
		Title:       "Bare",
		Description: strings.Repeat("d", 2500),
	}
	input := fabric.ComposeInput(item)
	if strings.Contains(input, "Transcript:") {
		t.Fatalf("unexpected transcript section:\n%s", input)
	}
	if strings.Contains(input, strings.Repeat("d", 2001)) {
		t.Fatal("description was not clipped to 2000 chars")
	}
	if !strings.Contains(input, strings.Repeat("d", 2000)) {
		t.Fatal("clipped description missing")
	}
}
