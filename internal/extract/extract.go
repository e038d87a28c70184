// Package extract turns plain resume text into a structured record using
// fixed patterns. Every function is pure and safe for concurrent use.
package extract

import (
	"time"

	"resumine/internal/types"
)

// Extract builds the structured record for text using the current year
// as the reference for date-based experience estimates.
func Extract(text string) types.ExtractedData {
	return ExtractAt(text, time.Now().Year())
}

// ExtractAt builds the structured record for text. referenceYear bounds the
// year scan in YearsOfExperience.
func ExtractAt(text string, referenceYear int) types.ExtractedData {
	lines := NormalizeLines(text)

	return types.ExtractedData{
		CandidateName:        CandidateName(lines),
		Skills:               Skills(text),
		TotalYearsExperience: YearsOfExperience(text, referenceYear),
		Education:            Education(text),
		ContactInfo:          Contact(text),
		WorkExperience:       WorkHistory(text),
	}
}
