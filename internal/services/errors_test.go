package services_test

import (
	"errors"
	"strings"
	"testing"

	"curator/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fetch", "yt-dlp", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "rate", "extract", "no marker", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsFatalOnlyForConfiguration(t *testing.T) {
	cfgErr := services.Wrap(services.ErrConfiguration, "startup", "load", "bad config", nil)
	if !services.IsFatal(cfgErr) {
		t.Fatal("configuration errors must be fatal")
	}
	for _, marker := range []error{
		services.ErrExternalTool,
		services.ErrParse,
		services.ErrNotFound,
		services.ErrTimeout,
		services.ErrIntegrity,
		services.ErrTransient,
	} {
		err := services.Wrap(marker, "pass", "op", "msg", nil)
		if services.IsFatal(err) {
			t.Fatalf("%v must not be fatal", marker)
		}
	}
	if services.IsFatal(nil) {
		t.Fatal("nil error must not be fatal")
	}
}

func TestClassHelpers(t *testing.T) {
	if !services.IsParse(services.Wrap(services.ErrParse, "rate", "extract", "bad output", nil)) {
		t.Fatal("expected parse classification")
	}
	if !services.IsTimeout(services.Wrap(services.ErrTimeout, "fetch", "yt-dlp", "deadline", nil)) {
		t.Fatal("expected timeout classification")
	}
	if !services.IsNotFound(services.Wrap(services.ErrNotFound, "sources", "lookup", "missing", nil)) {
		t.Fatal("expected not-found classification")
	}
	if !services.IsIntegrity(services.Wrap(services.ErrIntegrity, "ingest", "insert", "unique", nil)) {
		t.Fatal("expected integrity classification")
	}
	if services.IsParse(services.Wrap(services.ErrTimeout, "rate", "call", "slow", nil)) {
		t.Fatal("timeout must not classify as parse")
	}
}
