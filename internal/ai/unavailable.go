package ai

import "context"

// UnavailableProvider answers every operation with FallbackAnalysis. It is
// used when no API key is configured so offline extraction keeps working.
type UnavailableProvider struct {
	model string
}

var _ Provider = (*UnavailableProvider)(nil)

func NewUnavailableProvider(model string) *UnavailableProvider {
	return &UnavailableProvider{model: model}
}

func (u *UnavailableProvider) AnalyzeResume(context.Context, string) (string, *TokenUsage, error) {
	return FallbackAnalysis, nil, nil
}

func (u *UnavailableProvider) ScreenCandidate(context.Context, string, string) (string, *TokenUsage, error) {
	return FallbackAnalysis, nil, nil
}

func (u *UnavailableProvider) GenerateInterviewQuestions(context.Context, string, string) (string, *TokenUsage, error) {
	return FallbackAnalysis, nil, nil
}

func (u *UnavailableProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: u.model, Available: false, Error: "no API key configured"}
}

func (u *UnavailableProvider) Close() error {
	return nil
}
