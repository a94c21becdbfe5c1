package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/services"
)

// Request bounds one channel enumeration.
type Request struct {
	LookbackDays int
	MaxItems     int
	SubtitleLang string
}

// Entry is one video's metadata as reported by yt-dlp. Captions holds the
// raw VTT text when an auto-generated subtitle file was produced.
type Entry struct {
	ID              string
	Title           string
	URL             string
	Description     string
	UploadDate      *time.Time
	DurationSeconds int
	Captions        string
}

// Lister defines the channel enumeration surface consumed by the fetch pass.
type Lister interface {
	List(ctx context.Context, channelURL string, req Request) ([]Entry, error)
}

// Executor abstracts command execution for testability. Implementations run
// the binary with the working directory already created; test doubles write
// fixture files into it instead of spawning a process.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workDir string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a yt-dlp client from fetch configuration.
func New(cfg config.Fetch, opts ...Option) (*Client, error) {
	binary := strings.TrimSpace(cfg.YtdlpBinary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// List enumerates recent uploads of a channel without downloading media.
// A run that exceeds the configured timeout yields a timeout error. A nonzero
// exit with produced metadata files is treated as a partial success; a
// nonzero exit with none is an external tool error.
func (c *Client) List(ctx context.Context, channelURL string, req Request) ([]Entry, error) {
	channelURL = strings.TrimSpace(channelURL)
	if channelURL == "" {
		return nil, errors.New("channel url required")
	}

	workDir, err := os.MkdirTemp("", "curator-ytdlp-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	runErr := c.exec.Run(runCtx, c.binary, buildArgs(channelURL, workDir, req), workDir)
	if runErr != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, services.Wrap(services.ErrTimeout, "fetch", "invoke yt-dlp",
			fmt.Sprintf("yt-dlp exceeded %s for %s", c.timeout, channelURL), runErr)
	}

	entries, err := readEntries(workDir, req.SubtitleLang)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 && runErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "fetch", "invoke yt-dlp",
			fmt.Sprintf("yt-dlp produced no metadata for %s", channelURL), runErr)
	}
	return entries, nil
}

func buildArgs(channelURL, workDir string, req Request) []string {
	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = 1
	}
	dateAfter := time.Now().AddDate(0, 0, -lookback).Format("20060102")

	lang := strings.TrimSpace(req.SubtitleLang)
	if lang == "" {
		lang = "en"
	}

	args := []string{
		"--skip-download",
		"--write-info-json",
		"--write-auto-sub",
		"--sub-lang", lang,
		"--sub-format", "vtt",
		"--dateafter", dateAfter,
	}
	if req.MaxItems > 0 {
		args = append(args, "--playlist-end", fmt.Sprintf("%d", req.MaxItems))
	}
	args = append(args,
		"--ignore-errors",
		"--output", workDir+"/%(id)s.%(ext)s",
		channelURL,
	)
	return args
}

var _ Lister = (*Client)(nil)

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, _ string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}
