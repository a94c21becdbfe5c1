// Package fetch turns configured sources into candidate content items. One
// fetcher is registered per source type: video channels enumerate uploads via
// yt-dlp, feeds parse over HTTP, and source types without an implementation
// report themselves as unsupported instead of silently returning nothing.
package fetch
