// Package analyzer runs the resume workflows: single-file and batch
// analysis, candidate screening, interview questions and directory watching.
// Structured fields come from the extract package; narrative text comes from
// an ai.Provider.
package analyzer

import (
	"context"
	"strings"
	"time"

	"resumine/internal/ai"
	"resumine/internal/config"
	"resumine/internal/errors"
	"resumine/internal/extract"
	"resumine/internal/types"
)

// ExtractionFailedMessage is the error recorded when a resume yields no text.
const ExtractionFailedMessage = "Could not extract text from resume file or file is empty"

// Recorder receives measurements from the analyzer. observability.Metrics
// implements it; a nil Recorder disables recording.
type Recorder interface {
	RecordExtraction(ctx context.Context, data types.ExtractedData, textBytes int)
	RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error)
	RecordAnalysisFailure(ctx context.Context)
}

// Options tune an Analyzer. Zero values select the defaults.
type Options struct {
	// ReferenceYear bounds date-based experience estimates; 0 is the current year.
	ReferenceYear int
	// Concurrency caps parallel file analysis in BatchAnalyze.
	Concurrency int
	// DebounceDelay is how long Watch waits after the last event on a file.
	DebounceDelay time.Duration
	// Recursive makes Watch follow subdirectories.
	Recursive bool
	// MaxFileSize rejects larger resume files; <= 0 disables the check.
	MaxFileSize int64
	Recorder    Recorder
}

// OptionsFromConfig maps the extraction, batch and watch settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReferenceYear: cfg.Extraction.ReferenceYear,
		Concurrency:   cfg.Batch.Concurrency,
		DebounceDelay: cfg.Watch.DebounceDelay,
		Recursive:     cfg.Watch.Recursive,
		MaxFileSize:   cfg.App.MaxFileSize,
	}
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	provider ai.Provider
	logger   *errors.Logger
	opts     Options
	now      func() time.Time
}

func New(provider ai.Provider, logger *errors.Logger, opts Options) *Analyzer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = time.Second
	}
	return &Analyzer{provider: provider, logger: logger, opts: opts, now: time.Now}
}

func (a *Analyzer) referenceYear() int {
	if a.opts.ReferenceYear > 0 {
		return a.opts.ReferenceYear
	}
	return a.now().Year()
}

// Extract runs only the heuristic extractor, without calling the model.
func (a *Analyzer) Extract(ctx context.Context, text string) types.ExtractedData {
	data := extract.ExtractAt(text, a.referenceYear())
	if a.opts.Recorder != nil {
		a.opts.Recorder.RecordExtraction(ctx, data, len(text))
	}
	return data
}

// Analyze reads the resume at path and analyzes it. Read failures are
// reported in the result, never as a Go error.
func (a *Analyzer) Analyze(ctx context.Context, path string) types.AnalysisResult {
	a.logger.Info("Analyzing resume", "file_path", path)

	text, err := a.ReadResume(path)
	if err != nil {
		a.logger.LogError(err, "Could not read resume", "file_path", path)
		return a.failedAnalysis(ctx, path)
	}
	return a.AnalyzeText(ctx, path, text)
}

// AnalyzeText analyzes in-memory resume text. source is recorded as the
// result's file_path.
func (a *Analyzer) AnalyzeText(ctx context.Context, source, text string) types.AnalysisResult {
	if strings.TrimSpace(text) == "" {
		return a.failedAnalysis(ctx, source)
	}

	aiAnalysis := a.callAI(ctx, config.OperationAnalyze, func(ctx context.Context) (string, *ai.TokenUsage, error) {
		return a.provider.AnalyzeResume(ctx, text)
	})
	data := a.Extract(ctx, text)

	a.logger.Info("Resume analysis completed",
		"file_path", source,
		"candidate_name", data.CandidateName,
		"skills", len(data.Skills))

	return types.AnalysisResult{
		Success:       true,
		FilePath:      source,
		CandidateName: data.CandidateName,
		ResumeText:    text,
		AIAnalysis:    aiAnalysis,
		ExtractedData: &data,
		Timestamp:     a.now(),
	}
}

func (a *Analyzer) failedAnalysis(ctx context.Context, path string) types.AnalysisResult {
	if a.opts.Recorder != nil {
		a.opts.Recorder.RecordAnalysisFailure(ctx)
	}
	return types.AnalysisResult{
		Success:  false,
		Error:    ExtractionFailedMessage,
		FilePath: path,
	}
}

// Screen asks the model to assess an analyzed candidate against job requirements.
func (a *Analyzer) Screen(ctx context.Context, result types.AnalysisResult, requirements string) types.ScreeningResult {
	a.logger.Info("Screening candidate", "candidate_name", displayName(result))

	summary := CandidateSummary(result)
	analysis := a.callAI(ctx, config.OperationScreen, func(ctx context.Context) (string, *ai.TokenUsage, error) {
		return a.provider.ScreenCandidate(ctx, summary, requirements)
	})

	return types.ScreeningResult{
		CandidateName:     result.CandidateName,
		CandidateFile:     result.FilePath,
		JobRequirements:   requirements,
		ScreeningAnalysis: analysis,
		Timestamp:         a.now(),
	}
}

// InterviewQuestions asks the model for questions for an analyzed candidate.
func (a *Analyzer) InterviewQuestions(ctx context.Context, result types.AnalysisResult, jobDescription string) types.InterviewQuestionsResult {
	a.logger.Info("Generating interview questions", "candidate_name", displayName(result))

	summary := CandidateSummary(result)
	questions := a.callAI(ctx, config.OperationQuestions, func(ctx context.Context) (string, *ai.TokenUsage, error) {
		return a.provider.GenerateInterviewQuestions(ctx, jobDescription, summary)
	})

	return types.InterviewQuestionsResult{
		CandidateName:  result.CandidateName,
		Questions:      questions,
		JobDescription: jobDescription,
		Timestamp:      a.now(),
	}
}

// callAI turns provider failures into narrative text so that one model
// outage never fails an analysis.
func (a *Analyzer) callAI(ctx context.Context, operation string, fn func(context.Context) (string, *ai.TokenUsage, error)) string {
	start := time.Now()
	text, usage, err := fn(ctx)
	if a.opts.Recorder != nil {
		a.opts.Recorder.RecordAIOperation(ctx, operation, time.Since(start), usage, err)
	}
	if err != nil {
		a.logger.LogError(err, "AI call failed", "operation", operation)
		return "Error calling AI service: " + err.Error()
	}
	return text
}

func displayName(result types.AnalysisResult) string {
	if result.CandidateName == "" {
		return types.UnknownCandidate
	}
	return result.CandidateName
}
