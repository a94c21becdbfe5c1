// Package ingest deduplicates fetched candidates into stored content items.
// The gate is idempotent: re-running a fetch pass over an overlapping window
// never creates a second row for a URL, and an insert that loses a race to a
// concurrent writer is counted as a duplicate rather than failing the batch.
package ingest
