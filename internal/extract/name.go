package extract

import (
	"regexp"
	"unicode/utf8"

	"resumine/internal/types"
)

const (
	nameScanLines = 3
	nameMinLength = 3
	nameMaxLength = 50
)

var (
	// headers and contact lines are never names
	nameSkipPattern = regexp.MustCompile(`(?i)resume|cv|curriculum|email|phone|@|\d{3}[-\s]\d{3}`)
	namePattern     = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)
)

// CandidateName returns the first of the leading lines that looks like a
// "First Last" name, or types.UnknownCandidate.
func CandidateName(lines []string) string {
	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		if nameSkipPattern.MatchString(line) {
			continue
		}
		if n := utf8.RuneCountInString(line); n < nameMinLength || n > nameMaxLength {
			continue
		}
		if namePattern.MatchString(line) {
			return line
		}
	}
	return types.UnknownCandidate
}
