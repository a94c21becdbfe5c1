// Package ytdlp wraps the yt-dlp command-line tool used to enumerate recent
// channel uploads. yt-dlp runs in metadata-only mode against a temporary
// working directory; the client reads back the *.info.json files it produced
// together with any auto-generated caption files. Because invocations run
// with --ignore-errors, the exit status is advisory and produced files win.
package ytdlp
