package fabric

import (
	"fmt"
	"strings"

	"curator/internal/content"
)

const descriptionMaxChars = 2000

// ComposeInput builds the plain-text prompt fabric rates: title, truncated
// description, and the normalized transcript when one was captured.
func ComposeInput(item *content.Item) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Title: %s\n", strings.TrimSpace(item.Title))

	description := strings.TrimSpace(item.Description)
	if description != "" {
		fmt.Fprintf(&builder, "\nDescription: %s\n", clip(description, descriptionMaxChars))
	}

	transcript := strings.TrimSpace(item.Transcript)
	if transcript != "" {
		fmt.Fprintf(&builder, "\nTranscript: %s\n", transcript)
	}

	return builder.String()
}

func clip(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
