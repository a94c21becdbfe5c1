package testsupport

import (
	"context"
	"testing"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSource registers a video-channel source for tests using the provided
// store.
func NewSource(t testing.TB, st *store.Store, name string) *content.Source {
	t.Helper()

	source, err := st.AddSource(context.Background(), name, content.SourceTypeVideoChannel, "https://example.com/"+name)
	if err != nil {
		t.Fatalf("store.AddSource: %v", err)
	}
	return source
}

// NewItem inserts a minimal content item for tests using the provided store.
func NewItem(t testing.TB, st *store.Store, sourceID int64, title, url string) *content.Item {
	t.Helper()

	item, err := st.InsertItem(context.Background(), &content.Item{
		SourceID: sourceID,
		Title:    title,
		URL:      url,
	})
	if err != nil {
		t.Fatalf("store.InsertItem: %v", err)
	}
	return item
}
