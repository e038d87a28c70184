package extract

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
)

// Years before this are treated as noise in the date scan.
const earliestCareerYear = 1990

var (
	explicitExperiencePattern = regexp.MustCompile(`(?i)(\d+)[\+\s]*years?\s+(?:of\s+)?experience`)
	yearTokenPattern          = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// YearsOfExperience returns the largest "N years experience" figure in text.
// A figure too large for float64 counts as math.MaxFloat64. When there is none it estimates a span from the distinct year tokens in
// [1990, referenceYear]: max(referenceYear-earliest, latest-earliest).
func YearsOfExperience(text string, referenceYear int) float64 {
	matches := explicitExperiencePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return estimateFromYears(text, referenceYear)
	}

	best := 0.0
	for _, m := range matches {
		n, err := strconv.ParseFloat(m[1], 64)
		if errors.Is(err, strconv.ErrRange) {
			n = math.MaxFloat64
		} else if err != nil {
			continue
		}
		best = max(best, n)
	}
	return best
}

func estimateFromYears(text string, referenceYear int) float64 {
	years := make([]int, 0, 8)
	for _, token := range yearTokenPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(token)
		if err != nil || year < earliestCareerYear || year > referenceYear {
			continue
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		return 0
	}

	slices.Sort(years)
	years = slices.Compact(years)
	earliest, latest := years[0], years[len(years)-1]

	return float64(max(referenceYear-earliest, latest-earliest))
}
