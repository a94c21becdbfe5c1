// Package content defines the entity types moved through the curation
// pipeline: sources, content items, ratings, digests, and the derived
// item lifecycle. Types here are storage-agnostic; the store package owns
// the mapping to and from column encodings.
package content
