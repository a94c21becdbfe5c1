package rating

import (
	"fmt"
	"regexp"
	"strings"

	"curator/internal/content"
	"curator/internal/services"
)

const (
	reasoningMaxChars    = 500
	excerptMaxChars      = 200
	reasoningPlaceholder = "No explanation provided"
)

// ratingPatterns are tried in order; the tier-label form wins over the bare
// RATING: label. The letter itself is always uppercase.
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([SABCD])\s+Tier:`),
	regexp.MustCompile(`(?i:RATING):\s*([SABCD])`),
}

var (
	explanationPattern = regexp.MustCompile(`(?s)Explanation:\s*(.*?)(?:CONTENT SCORE:|$)`)
	tierDescPattern    = regexp.MustCompile(`[SABCD] Tier:\s*\(([^)]+)\)`)
)

// Extract parses free-form rating-tool output into a structured result. The
// output must contain one of the two known rating patterns; anything else
// fails with a parse error carrying a bounded excerpt of the text. Reasoning
// comes from the Explanation section when present, otherwise from the
// parenthesized tier description, otherwise a fixed placeholder.
func Extract(output string) (content.RatingResult, error) {
	letter := ""
	for _, pattern := range ratingPatterns {
		if m := pattern.FindStringSubmatch(output); m != nil {
			letter = strings.ToUpper(m[1])
			break
		}
	}
	if letter == "" {
		return content.RatingResult{}, services.Wrap(services.ErrParse, "", "extract rating",
			fmt.Sprintf("no rating pattern in output: %s", excerpt(output)), nil)
	}

	return content.RatingResult{
		Rating:    content.Rating(letter),
		Reasoning: clip(extractReasoning(output), reasoningMaxChars),
	}, nil
}

func extractReasoning(output string) string {
	if m := explanationPattern.FindStringSubmatch(output); m != nil {
		return joinBulletLines(m[1])
	}
	if m := tierDescPattern.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}
	return reasoningPlaceholder
}

// joinBulletLines flattens a multi-line bullet list into continuous prose:
// leading bullet markers are stripped from each line and the lines joined
// with single spaces.
func joinBulletLines(region string) string {
	var parts []string
	for _, line := range strings.Split(region, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func clip(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

func excerpt(output string) string {
	return clip(strings.TrimSpace(output), excerptMaxChars) + "..."
}
