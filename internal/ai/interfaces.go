package ai

import "context"

// Provider is a language-model backend for the three recruiting operations.
// Every call returns token usage when the backend reports it; callers may
// ignore it.
type Provider interface {
	AnalyzeResume(ctx context.Context, resumeText string) (string, *TokenUsage, error)
	ScreenCandidate(ctx context.Context, candidateSummary, requirements string) (string, *TokenUsage, error)
	GenerateInterviewQuestions(ctx context.Context, jobDescription, candidateSummary string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
