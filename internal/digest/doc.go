// Package digest selects rated top-tier items and publishes them exactly
// once: the ordered selection is rendered to one markdown artifact, the
// artifact is written into the vault, and the digest record plus the items'
// published flags commit together so a digest can never disagree with the
// items it claims.
package digest
