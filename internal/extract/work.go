package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resumine/internal/types"
)

const (
	// MaxWorkEntries caps the work history returned by WorkHistory.
	MaxWorkEntries = 5

	maxWorkFieldLength = 100
)

// Any line shaped like "Title at Company", "Title @ Company" or
// "Title - Company" counts, including address lines and similar prose.
var workLinePattern = regexp.MustCompile(`(?im)^(.+?)(?:\s+at\s+|\s+@\s+|\s+-\s+)(.+?)$`)

// WorkHistory returns up to MaxWorkEntries title/company pairs in document
// order. Matches with a title or company over 100 characters are skipped.
func WorkHistory(text string) []types.WorkEntry {
	entries := make([]types.WorkEntry, 0, MaxWorkEntries)
	for _, m := range workLinePattern.FindAllStringSubmatch(text, -1) {
		title, company := m[1], m[2]
		if utf8.RuneCountInString(title) > maxWorkFieldLength || utf8.RuneCountInString(company) > maxWorkFieldLength {
			continue
		}

		entries = append(entries, types.WorkEntry{
			Title:    strings.TrimSpace(title),
			Company:  strings.TrimSpace(company),
			Duration: types.DurationUnspecified,
		})
		if len(entries) == MaxWorkEntries {
			break
		}
	}
	return entries
}
