package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"resumine/internal/ai"
	"resumine/internal/errors"
)

const (
	healthCheckTimeout = 5 * time.Second
	errRequestTooLarge = "REQUEST_TOO_LARGE"
)

// healthHandler reports service health. Running without an API key is
// healthy (offline mode); a configured model that cannot be reached is degraded.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumine",
		"version": s.Version,
	}
	status := http.StatusOK

	if s.ai != nil {
		aiStatus := map[string]any{"available": s.ai.Available()}
		if s.ai.Available() {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			info := s.ai.GetModelInfo(ctx)
			aiStatus["model"] = info
			if !info.Available {
				response["status"] = "degraded"
				status = http.StatusServiceUnavailable
			}
		} else {
			aiStatus["mode"] = "offline"
			aiStatus["message"] = ai.FallbackAnalysis
		}
		response["ai"] = aiStatus
	}

	if s.store != nil {
		response["results_backend"] = s.store.Backend()
	}

	writeJSON(w, r, status, response)
}

// statsHandler reports server settings, counters and limiter state
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":        "resumine",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"requests_total": s.requests.Load(),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"tls_mode":               s.TLSConfig.Mode,
			"auth_enabled":           len(s.APIKeys) > 0,
			"auto_save":              s.AutoSave,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.ai != nil {
		response["circuit_breakers"] = s.ai.CircuitBreakerStats()
	}

	writeJSON(w, r, http.StatusOK, response)
}

// parseJSONRequest decodes a JSON body into v
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errRequestTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), nil)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "failed to parse JSON", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFromContext(r.Context()).Warn("Failed to encode response", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, r *http.Request, error, message string, statusCode int) {
	writeJSON(w, r, statusCode, ErrorResponse{
		Error:     error,
		Message:   message,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeAppError maps an error to a status code and logs server-side failures
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, title, "path", r.URL.Path, "request_id", requestIDFromContext(r.Context()))
	}
	writeErrorResponse(w, r, title, err.Error(), status)
}

func statusForError(err error) int {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch {
	case appErr.Code == errors.ErrCodeResultNotFound:
		return http.StatusNotFound
	case appErr.Type == errors.ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
