package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer places artifacts under a vault directory. Existing files are never
// overwritten; a colliding name gets an incrementing " (N)" suffix.
type Writer struct {
	dir string
}

// NewWriter constructs a writer rooted at the given directory.
func NewWriter(dir string) (*Writer, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("vault directory required")
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the vault directory the writer targets.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores body under filename inside the vault, creating the directory
// when needed, and returns the path actually written. When filename already
// exists the first free "name (N).ext" variant is used instead.
func (w *Writer) Write(filename, body string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", errors.New("artifact filename required")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create vault directory: %w", err)
	}

	target, err := w.resolveCollision(filename)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return target, nil
}

func (w *Writer) resolveCollision(filename string) (string, error) {
	target := filepath.Join(w.dir, filename)

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		_, err := os.Stat(target)
		if errors.Is(err, os.ErrNotExist) {
			return target, nil
		}
		if err != nil {
			return "", fmt.Errorf("check artifact path: %w", err)
		}
		target = filepath.Join(w.dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
	}
}
