// Package workflow orchestrates the three batch passes of the pipeline:
// fetching candidates per source, rating unrated items one at a time, and
// assembling a digest. Passes run to completion; a failure in one unit of
// work is recorded and the pass moves on, so a single bad source or
// unparseable rating never aborts a batch.
package workflow
