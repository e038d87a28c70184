package analyzer

import (
	"strconv"
	"strings"

	"resumine/internal/types"
)

// NoCandidateData is the summary of a result without extracted data.
const NoCandidateData = "No candidate data available"

// CandidateSummary renders the short profile sent to the model for
// screening and interview questions:
//
//	Candidate: Jane Smith
//	Experience: 7 years
//	Skills: python, aws
//	Education: Bachelor Computer Science from Institution not specified
//
// The education line is omitted when none was found.
func CandidateSummary(result types.AnalysisResult) string {
	data := result.ExtractedData
	if data == nil {
		return NoCandidateData
	}

	skills := "Not specified"
	if len(data.Skills) > 0 {
		skills = strings.Join(data.Skills, ", ")
	}

	lines := []string{
		"Candidate: " + displayName(result),
		"Experience: " + FormatYears(data.TotalYearsExperience) + " years",
		"Skills: " + skills,
	}
	if len(data.Education) > 0 {
		first := data.Education[0]
		lines = append(lines, "Education: "+first.Degree+" from "+first.Institution)
	}
	return strings.Join(lines, "\n")
}

// FormatYears prints whole years without a fractional part.
func FormatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}
