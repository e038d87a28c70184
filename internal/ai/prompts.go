package ai

import "resumine/internal/config"

// FallbackAnalysis is returned for every operation when no API key is configured.
const FallbackAnalysis = "AI analysis not available (no API key configured)"

// DefaultSystemPrompt is the system instruction shared by all operations.
const DefaultSystemPrompt = "You are an expert HR professional and recruitment specialist. Provide clear, structured analysis."

// UserPrompts contains user-level prompt templates with %s placeholders
type UserPrompts struct {
	AnalyzeResume     string
	ScreenCandidate   string
	GenerateQuestions string
}

// DefaultUserPrompts provides the built-in templates.
//   - AnalyzeResume takes the resume text.
//   - ScreenCandidate takes the candidate summary, then the requirements.
//   - GenerateQuestions takes the job description, then the candidate summary.
var DefaultUserPrompts = UserPrompts{
	AnalyzeResume:     "Analyze this resume and extract key information:\n\n%s",
	ScreenCandidate:   "Screen this candidate against job requirements:\n\nCandidate:\n%s\n\nRequirements:\n%s",
	GenerateQuestions: "Generate interview questions for this candidate:\n\nJob:\n%s\n\nCandidate:\n%s",
}

func defaultUserPrompt(operation string) string {
	switch operation {
	case config.OperationAnalyze:
		return DefaultUserPrompts.AnalyzeResume
	case config.OperationScreen:
		return DefaultUserPrompts.ScreenCandidate
	case config.OperationQuestions:
		return DefaultUserPrompts.GenerateQuestions
	default:
		return ""
	}
}

// resolvePrompt prefers the configured prompt and falls back to the default.
// Prompt files are already read into the config at load time.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
