package formatters

import (
	"fmt"
	"strings"

	"resumine/internal/types"
	"resumine/internal/utils"
)

func writeProfileMarkdown(b *strings.Builder, data types.ExtractedData) {
	fmt.Fprintf(b, "**Name:** %s\n\n", data.CandidateName)
	fmt.Fprintf(b, "**Experience:** %s years\n\n", years(data.TotalYearsExperience))
	fmt.Fprintf(b, "**Skills:** %s\n\n", joinOr(data.Skills, "None found"))

	b.WriteString("### Contact\n\n")
	fmt.Fprintf(b, "- Email: %s\n", deref(data.ContactInfo.Email))
	fmt.Fprintf(b, "- Phone: %s\n", deref(data.ContactInfo.Phone))
	fmt.Fprintf(b, "- Location: %s\n\n", deref(data.ContactInfo.Location))

	if len(data.Education) > 0 {
		b.WriteString("### Education\n\n")
		for _, e := range data.Education {
			fmt.Fprintf(b, "- %s (%s)\n", e.Degree, e.Institution)
		}
		b.WriteString("\n")
	}
	if len(data.WorkExperience) > 0 {
		b.WriteString("### Work Experience\n\n")
		for _, w := range data.WorkExperience {
			fmt.Fprintf(b, "- **%s** at %s (%s)\n", w.Title, w.Company, w.Duration)
		}
		b.WriteString("\n")
	}
}

func extractedDataMarkdown(data types.ExtractedData) string {
	var b strings.Builder
	b.WriteString("# Candidate Profile\n\n")
	writeProfileMarkdown(&b, data)
	return b.String()
}

func analysisMarkdown(result types.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("# Resume Analysis\n\n")
	fmt.Fprintf(&b, "**File:** `%s`\n\n", result.FilePath)

	if !result.Success {
		b.WriteString("**Status:** Failed\n\n")
		fmt.Fprintf(&b, "> %s\n", result.Error)
		return b.String()
	}

	b.WriteString("**Status:** Success\n\n")
	if result.ExtractedData != nil {
		b.WriteString("## Candidate Profile\n\n")
		writeProfileMarkdown(&b, *result.ExtractedData)
	}
	b.WriteString("## AI Analysis\n\n")
	b.WriteString(result.AIAnalysis)
	b.WriteString("\n")
	return b.String()
}

func batchMarkdown(batch types.BatchAnalysis) string {
	var b strings.Builder
	b.WriteString("# Batch Analysis\n\n")
	fmt.Fprintf(&b, "**Directory:** `%s`\n\n", batch.Directory)
	fmt.Fprintf(&b, "**Processed:** %d (%d succeeded, %d failed)\n\n", batch.Total, batch.Succeeded, batch.Failed)

	if len(batch.Results) == 0 {
		b.WriteString("_No .txt resume files found._\n")
		return b.String()
	}

	b.WriteString("| # | File | Candidate | Experience | Skills |\n")
	b.WriteString("|---|------|-----------|------------|--------|\n")
	for i, r := range batch.Results {
		if !r.Success {
			fmt.Fprintf(&b, "| %d | `%s` | _failed_ | | %s |\n", i+1, r.FilePath, r.Error)
			continue
		}
		skills, experience := "", "0"
		if r.ExtractedData != nil {
			skills = strings.Join(r.ExtractedData.Skills, ", ")
			experience = years(r.ExtractedData.TotalYearsExperience)
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s years | %s |\n", i+1, r.FilePath, r.CandidateName, experience, skills)
	}
	return b.String()
}

func screeningMarkdown(result types.ScreeningResult) string {
	var b strings.Builder
	b.WriteString("# Candidate Screening\n\n")
	fmt.Fprintf(&b, "**Candidate:** %s\n\n", result.CandidateName)
	fmt.Fprintf(&b, "**File:** `%s`\n\n", result.CandidateFile)
	b.WriteString("## Requirements\n\n")
	b.WriteString(strings.TrimSpace(result.JobRequirements))
	b.WriteString("\n\n## Screening Analysis\n\n")
	b.WriteString(result.ScreeningAnalysis)
	b.WriteString("\n")
	return b.String()
}

func questionsMarkdown(result types.InterviewQuestionsResult) string {
	var b strings.Builder
	b.WriteString("# Interview Questions\n\n")
	fmt.Fprintf(&b, "**Candidate:** %s\n\n", result.CandidateName)
	b.WriteString("## Job Description\n\n")
	b.WriteString(strings.TrimSpace(result.JobDescription))
	b.WriteString("\n\n## Suggested Questions\n\n")
	b.WriteString(result.Questions)
	b.WriteString("\n")
	return b.String()
}

func savedResultsMarkdown(list types.SavedResultList) string {
	if len(list.Results) == 0 {
		return "_No saved results found._\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Saved Results (%s)\n\n", list.Backend)
	b.WriteString("| # | Name | Kind | Size | Created |\n")
	b.WriteString("|---|------|------|------|---------|\n")
	for i, r := range list.Results {
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s | %s |\n", i+1, r.Name, r.Kind,
			utils.FormatFileSize(r.Size), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
