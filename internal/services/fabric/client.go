package fabric

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/services"
)

// Rater defines the rating collaborator consumed by the rating pass.
type Rater interface {
	Rate(ctx context.Context, input string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin string) (string, error)
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

// Client wraps fabric CLI interactions.
type Client struct {
	binary  string
	pattern string
	model   string
	timeout time.Duration
	exec    Executor
}

// New constructs a fabric client from rating configuration.
func New(cfg config.Rating, opts ...Option) (*Client, error) {
	binary := strings.TrimSpace(cfg.FabricBinary)
	if binary == "" {
		return nil, errors.New("fabric binary required")
	}
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		return nil, errors.New("fabric pattern required")
	}
	client := &Client{
		binary:  binary,
		pattern: pattern,
		model:   strings.TrimSpace(cfg.Model),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Rate pipes the composed item text through fabric and returns the raw
// response text. A run that exceeds the configured timeout yields a timeout
// error; any other execution failure is an external tool error. The response
// is returned as produced; parsing is the extractor's concern.
func (c *Client) Rate(ctx context.Context, input string) (string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--pattern", c.pattern}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	output, err := c.exec.Run(runCtx, c.binary, args, input)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "rate", "invoke fabric",
				fmt.Sprintf("fabric exceeded %s", c.timeout), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "rate", "invoke fabric", "fabric invocation failed", err)
	}

	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "", services.Wrap(services.ErrExternalTool, "rate", "invoke fabric", "fabric produced no output", nil)
	}
	return trimmed, nil
}

var _ Rater = (*Client)(nil)

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return "", fmt.Errorf("%s: %w", binary, err)
	}
	return stdout.String(), nil
}
