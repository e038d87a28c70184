package formatters

import (
	"fmt"
	"strconv"
	"strings"

	"resumine/internal/types"
	"resumine/internal/utils"
)

func years(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinOr(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ", ")
}

func deref(s *string) string {
	if s == nil {
		return "Not found"
	}
	return *s
}

func writeProfileText(b *strings.Builder, data types.ExtractedData) {
	fmt.Fprintf(b, "Name: %s\n", data.CandidateName)
	fmt.Fprintf(b, "Experience: %s years\n", years(data.TotalYearsExperience))
	fmt.Fprintf(b, "Skills: %s\n", joinOr(data.Skills, "None found"))
	fmt.Fprintf(b, "Email: %s\n", deref(data.ContactInfo.Email))
	fmt.Fprintf(b, "Phone: %s\n", deref(data.ContactInfo.Phone))
	fmt.Fprintf(b, "Location: %s\n", deref(data.ContactInfo.Location))

	if len(data.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, e := range data.Education {
			fmt.Fprintf(b, "  - %s (%s)\n", e.Degree, e.Institution)
		}
	}
	if len(data.WorkExperience) > 0 {
		b.WriteString("\nWork Experience:\n")
		for _, w := range data.WorkExperience {
			fmt.Fprintf(b, "  - %s at %s (%s)\n", w.Title, w.Company, w.Duration)
		}
	}
}

func extractedDataText(data types.ExtractedData) string {
	var b strings.Builder
	b.WriteString("=== CANDIDATE PROFILE ===\n")
	writeProfileText(&b, data)
	return b.String()
}

func analysisText(result types.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("=== RESUME ANALYSIS ===\n")
	fmt.Fprintf(&b, "File: %s\n", result.FilePath)

	if !result.Success {
		b.WriteString("Status: Failed\n")
		fmt.Fprintf(&b, "Error: %s\n", result.Error)
		return b.String()
	}

	b.WriteString("Status: Success\n\n")
	if result.ExtractedData != nil {
		b.WriteString("=== CANDIDATE PROFILE ===\n")
		writeProfileText(&b, *result.ExtractedData)
		b.WriteString("\n")
	}
	b.WriteString("=== AI ANALYSIS ===\n")
	b.WriteString(result.AIAnalysis)
	b.WriteString("\n")
	return b.String()
}

func batchText(batch types.BatchAnalysis) string {
	var b strings.Builder
	b.WriteString("=== BATCH ANALYSIS ===\n")
	fmt.Fprintf(&b, "Directory: %s\n", batch.Directory)
	fmt.Fprintf(&b, "Processed: %d (%d succeeded, %d failed)\n", batch.Total, batch.Succeeded, batch.Failed)

	if len(batch.Results) == 0 {
		b.WriteString("\nNo .txt resume files found.\n")
		return b.String()
	}

	b.WriteString("\n")
	for i, r := range batch.Results {
		if !r.Success {
			fmt.Fprintf(&b, "[%d] %s - FAILED: %s\n", i+1, r.FilePath, r.Error)
			continue
		}
		skills := "no skills found"
		experience := "0"
		if r.ExtractedData != nil {
			skills = joinOr(r.ExtractedData.Skills, skills)
			experience = years(r.ExtractedData.TotalYearsExperience)
		}
		fmt.Fprintf(&b, "[%d] %s - %s, %s years (%s)\n", i+1, r.FilePath, r.CandidateName, experience, skills)
	}
	return b.String()
}

func screeningText(result types.ScreeningResult) string {
	var b strings.Builder
	b.WriteString("=== CANDIDATE SCREENING ===\n")
	fmt.Fprintf(&b, "Candidate: %s\n", result.CandidateName)
	fmt.Fprintf(&b, "File: %s\n\n", result.CandidateFile)
	b.WriteString("Requirements:\n")
	b.WriteString(strings.TrimSpace(result.JobRequirements))
	b.WriteString("\n\nScreening Analysis:\n")
	b.WriteString(result.ScreeningAnalysis)
	b.WriteString("\n")
	return b.String()
}

func questionsText(result types.InterviewQuestionsResult) string {
	var b strings.Builder
	b.WriteString("=== INTERVIEW QUESTIONS ===\n")
	fmt.Fprintf(&b, "Candidate: %s\n\n", result.CandidateName)
	b.WriteString("Job Description:\n")
	b.WriteString(strings.TrimSpace(result.JobDescription))
	b.WriteString("\n\nSuggested Questions:\n")
	b.WriteString(result.Questions)
	b.WriteString("\n")
	return b.String()
}

func savedResultsText(list types.SavedResultList) string {
	if len(list.Results) == 0 {
		return "No saved results found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saved results (%s backend):\n", list.Backend)
	for i, r := range list.Results {
		fmt.Fprintf(&b, "%2d. %s  [%s, %s, %s]\n", i+1, r.Name, r.Kind,
			utils.FormatFileSize(r.Size), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
