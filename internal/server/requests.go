package server

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ExtractRequest is the body of POST /extract
type ExtractRequest struct {
	ResumeText string `json:"resumeText" validate:"required,notblank"`
}

// AnalyzeRequest is the body of POST /analyze. Source is recorded as the
// result's file_path and defaults to "api".
type AnalyzeRequest struct {
	ResumeText string `json:"resumeText" validate:"required,notblank"`
	Source     string `json:"source,omitempty" validate:"omitempty,max=255"`
}

// ScreenRequest is the body of POST /screen
type ScreenRequest struct {
	ResumeText      string `json:"resumeText" validate:"required,notblank"`
	JobRequirements string `json:"jobRequirements" validate:"required,notblank"`
}

// QuestionsRequest is the body of POST /questions
type QuestionsRequest struct {
	ResumeText     string `json:"resumeText" validate:"required,notblank"`
	JobDescription string `json:"jobDescription" validate:"required,notblank"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

const defaultSource = "api"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// describeValidation turns validator errors into one readable message
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s field is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
