package corpus

import (
	"regexp"
	"strings"
)

var (
	nonLetter  = regexp.MustCompile(`[^a-zA-Z\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize replaces every character outside [a-zA-Z] and whitespace with a
// space, lowercases the result, and collapses whitespace runs to single
// spaces. A removed punctuation mark therefore leaves one space behind
// ("tikar." becomes "tikar "). Empty input yields empty output.
func Normalize(raw string) string {
	cleaned := nonLetter.ReplaceAllString(raw, " ")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.ToLower(cleaned)
}

// Sentences cleans the raw text and splits the cleaned string on the literal
// period character. Cleaning removes periods, so a single segment holding the
// whole cleaned text is the common result. Empty segments are preserved:
// they produce no training pairs downstream and must not be dropped here.
func Sentences(raw string) []string {
	return strings.Split(Normalize(raw), ".")
}
