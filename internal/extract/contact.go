package extract

import (
	"regexp"

	"resumine/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	locationPattern = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]{2}|[A-Z][a-z]+\s*,\s*[A-Z][a-z]+`)
)

// Contact returns the first email, phone and "City, ST" style location in
// text. Fields with no match stay nil.
func Contact(text string) types.ContactInfo {
	return types.ContactInfo{
		Email:    firstMatch(emailPattern, text),
		Phone:    firstMatch(phonePattern, text),
		Location: firstMatch(locationPattern, text),
	}
}

func firstMatch(pattern *regexp.Regexp, text string) *string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	match := text[loc[0]:loc[1]]
	return &match
}
