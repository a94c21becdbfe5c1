package transcript

import "strings"

const (
	headerPrefix     = "WEBVTT"
	timingDelimiter  = "-->"
	truncationMarker = "..."
)

// metadataPrefixes lists cue-metadata labels that carry no caption text.
var metadataPrefixes = []string{"Kind:", "Language:"}

// Normalize converts raw caption-cue text into a single clean line. Header,
// timing, metadata, and blank lines are dropped; the remaining lines are
// joined with single spaces; tokens identical to the immediately preceding
// kept token are collapsed. Output longer than maxChars is cut to exactly
// maxChars characters plus a truncation marker. A maxChars of zero or less
// disables the cap. Empty input yields an empty string.
func Normalize(raw string, maxChars int) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, headerPrefix) {
			continue
		}
		if strings.Contains(line, timingDelimiter) {
			continue
		}
		if hasMetadataPrefix(line) {
			continue
		}
		kept = append(kept, line)
	}

	words := strings.Fields(strings.Join(kept, " "))
	collapsed := make([]string, 0, len(words))
	prev := ""
	for _, word := range words {
		if word == prev {
			continue
		}
		collapsed = append(collapsed, word)
		prev = word
	}

	return truncate(strings.Join(collapsed, " "), maxChars)
}

func hasMetadataPrefix(line string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + truncationMarker
}
