package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumine/internal/types"
)

// Applied in order; matches of both are kept even when they repeat.
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(bachelor|master|phd|doctorate|mba|bs|ms|ba|ma)\s+(?:of\s+)?(?:science\s+)?(?:in\s+)?([^,\n]+)`),
	regexp.MustCompile(`(?i)\b(associate|diploma)\s+(?:in\s+)?([^,\n]+)`),
}

// Education returns one entry per degree phrase in text. The institution is
// never determined and is always the placeholder.
func Education(text string) []types.EducationEntry {
	entries := make([]types.EducationEntry, 0, 2)
	for _, pattern := range degreePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			entries = append(entries, types.EducationEntry{
				Degree:      capitalize(m[1]) + " " + strings.TrimSpace(m[2]),
				Institution: types.InstitutionUnspecified,
			})
		}
	}
	return entries
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
