package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"resumine/internal/types"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Data type keys used by the registry
const (
	typeAny                = "any"
	typeExtractedData      = "ExtractedData"
	typeAnalysisResult     = "AnalysisResult"
	typeBatchAnalysis      = "BatchAnalysis"
	typeScreeningResult    = "ScreeningResult"
	typeInterviewQuestions = "InterviewQuestionsResult"
	typeSavedResultList    = "SavedResultList"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, typeAny, &JSONFormatter{})

	registry.RegisterFormatter(FormatText, typeExtractedData, textFormatter[types.ExtractedData](typeExtractedData, extractedDataText))
	registry.RegisterFormatter(FormatText, typeAnalysisResult, textFormatter[types.AnalysisResult](typeAnalysisResult, analysisText))
	registry.RegisterFormatter(FormatText, typeBatchAnalysis, textFormatter[types.BatchAnalysis](typeBatchAnalysis, batchText))
	registry.RegisterFormatter(FormatText, typeScreeningResult, textFormatter[types.ScreeningResult](typeScreeningResult, screeningText))
	registry.RegisterFormatter(FormatText, typeInterviewQuestions, textFormatter[types.InterviewQuestionsResult](typeInterviewQuestions, questionsText))
	registry.RegisterFormatter(FormatText, typeSavedResultList, textFormatter[types.SavedResultList](typeSavedResultList, savedResultsText))

	registry.RegisterFormatter(FormatMarkdown, typeExtractedData, textFormatter[types.ExtractedData](typeExtractedData, extractedDataMarkdown))
	registry.RegisterFormatter(FormatMarkdown, typeAnalysisResult, textFormatter[types.AnalysisResult](typeAnalysisResult, analysisMarkdown))
	registry.RegisterFormatter(FormatMarkdown, typeBatchAnalysis, textFormatter[types.BatchAnalysis](typeBatchAnalysis, batchMarkdown))
	registry.RegisterFormatter(FormatMarkdown, typeScreeningResult, textFormatter[types.ScreeningResult](typeScreeningResult, screeningMarkdown))
	registry.RegisterFormatter(FormatMarkdown, typeInterviewQuestions, textFormatter[types.InterviewQuestionsResult](typeInterviewQuestions, questionsMarkdown))
	registry.RegisterFormatter(FormatMarkdown, typeSavedResultList, textFormatter[types.SavedResultList](typeSavedResultList, savedResultsMarkdown))

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ExtractedData:
		return typeExtractedData
	case types.AnalysisResult:
		return typeAnalysisResult
	case types.BatchAnalysis:
		return typeBatchAnalysis
	case types.ScreeningResult:
		return typeScreeningResult
	case types.InterviewQuestionsResult:
		return typeInterviewQuestions
	case types.SavedResultList:
		return typeSavedResultList
	default:
		return typeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// typedFormatter adapts a render function for one concrete type
type typedFormatter[T any] struct {
	dataType string
	render   func(T) string
}

func textFormatter[T any](dataType string, render func(T) string) *typedFormatter[T] {
	return &typedFormatter[T]{dataType: dataType, render: render}
}

func (f *typedFormatter[T]) Format(data any) (string, error) {
	value, ok := data.(T)
	if !ok {
		return "", fmt.Errorf("expected %s, got %T", f.dataType, data)
	}
	return f.render(value), nil
}

func (f *typedFormatter[T]) SupportedType() string {
	return f.dataType
}

// GlobalRegistry is the registry used by the CLI
var GlobalRegistry = NewFormatterRegistry()
