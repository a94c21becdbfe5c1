// Package store persists sources, content items, digests, and fetch logs in
// SQLite.
//
// The Store owns the connection, pragmas, and schema migrations. Timestamps
// are written as second-precision RFC3339 in UTC so that string comparison in
// SQL matches chronological order; week boundaries on digests are stored as
// bare dates. Content items carry no explicit state column: an item is
// unrated until rating is set and published once a digest claims it, and the
// guarded UPDATE in ApplyRating plus the single-transaction PublishDigest keep
// those transitions one-way.
package store
