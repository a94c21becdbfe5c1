// Package fabric wraps the fabric command-line tool used to rate content
// items. The composed item text is piped to fabric on stdin and the raw
// response is captured from stdout for the rating extractor to parse.
package fabric
