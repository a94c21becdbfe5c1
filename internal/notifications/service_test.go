package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/notifications"
)

func TestNewServiceReturnsNoopWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Enabled = false
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/topic"

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.Enabled = true
	cfg.Notifications.NtfyTopic = ""

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "fetch"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCapturingService(t *testing.T, status int) (notifications.Service, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.title = r.Header.Get("Title")
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		got.body = string(body)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.Enabled = true
	cfg.Notifications.NtfyTopic = server.URL
	return notifications.NewService(&cfg), got
}

func TestNotifyDigestPublishedFormatsPayload(t *testing.T) {
	svc, got := newCapturingService(t, http.StatusOK)

	digest := &content.Digest{ItemCount: 3, STierCount: 1, ATierCount: 2, VaultPath: "/vault/Curated Digest 2024-01-15.md"}
	if err := svc.NotifyDigestPublished(context.Background(), digest); err != nil {
		t.Fatalf("NotifyDigestPublished: %v", err)
	}

	if got.title != "Curator - Digest Published" {
		t.Fatalf("title = %q", got.title)
	}
	if !strings.Contains(got.body, "3 item(s) (1 S-tier, 2 A-tier)") {
		t.Fatalf("body = %q", got.body)
	}
	if !strings.Contains(got.body, "Curated Digest 2024-01-15.md") {
		t.Fatalf("body missing path: %q", got.body)
	}
	if got.tags != "curator,digest,published" {
		t.Fatalf("tags = %q", got.tags)
	}
}

func TestNotifyFetchCompletedMentionsFailures(t *testing.T) {
	svc, got := newCapturingService(t, http.StatusOK)

	if err := svc.NotifyFetchCompleted(context.Background(), 4, 9, 2); err != nil {
		t.Fatalf("NotifyFetchCompleted: %v", err)
	}
	if !strings.Contains(got.title, "with errors") {
		t.Fatalf("title = %q", got.title)
	}
	if !strings.Contains(got.body, "2 source(s) failed") {
		t.Fatalf("body = %q", got.body)
	}
}

func TestNotifyErrorUsesHighPriority(t *testing.T) {
	svc, got := newCapturingService(t, http.StatusOK)

	if err := svc.NotifyError(context.Background(), errors.New("boom"), "rate pass"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
	if !strings.Contains(got.body, "rate pass") || !strings.Contains(got.body, "boom") {
		t.Fatalf("body = %q", got.body)
	}
}

func TestSendReportsHTTPFailures(t *testing.T) {
	svc, _ := newCapturingService(t, http.StatusForbidden)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error = %v", err)
	}
}
