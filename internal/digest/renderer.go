package digest

import (
	"fmt"
	"strings"
	"time"

	"curator/internal/content"
)

// Renderer turns the ordered selection into an artifact body.
type Renderer interface {
	Render(windowStart, windowEnd time.Time, items []*content.Item) string
}

// MarkdownRenderer produces the vault digest note: a summary header and one
// section per tier with an entry per item.
type MarkdownRenderer struct{}

// NewMarkdownRenderer constructs the default renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render writes the digest body. Items arrive in publication order (S tier
// before A, newest publication dates first) and are grouped by tier without
// reordering.
func (MarkdownRenderer) Render(windowStart, windowEnd time.Time, items []*content.Item) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# Curated Digest\n\n")
	fmt.Fprintf(&builder, "%s to %s | %d item(s)\n",
		windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"), len(items))

	currentTier := content.Rating("")
	for _, item := range items {
		if item.Rating != currentTier {
			currentTier = item.Rating
			fmt.Fprintf(&builder, "\n## %s Tier\n", currentTier)
		}
		builder.WriteString(renderItem(item))
	}

	builder.WriteString("\n---\n")
	builder.WriteString("Generated by curator\n")
	return builder.String()
}

func renderItem(item *content.Item) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\n### [%s](%s)\n", strings.TrimSpace(item.Title), item.URL)

	var meta []string
	if item.PublishedDate != nil {
		meta = append(meta, item.PublishedDate.Format("2006-01-02"))
	}
	if item.DurationMinutes > 0 {
		meta = append(meta, fmt.Sprintf("%d min", item.DurationMinutes))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&builder, "*%s*\n", strings.Join(meta, " | "))
	}

	if reasoning := strings.TrimSpace(item.RatingReasoning); reasoning != "" {
		fmt.Fprintf(&builder, "\n%s\n", reasoning)
	}
	return builder.String()
}

var _ Renderer = (*MarkdownRenderer)(nil)
