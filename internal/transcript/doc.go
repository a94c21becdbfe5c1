// Package transcript cleans raw caption-cue text into bounded plain prose.
//
// Auto-generated subtitle tracks interleave cue text with format headers,
// timing ranges, and cue metadata, and frequently stutter the same word
// across adjacent cues. Normalize strips the non-text lines, collapses
// immediately repeated tokens, and caps the result at a character budget.
// Only adjacent repeats are collapsed; repeated phrases and non-adjacent
// repeats pass through unchanged.
package transcript
