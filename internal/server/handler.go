package server

import (
	"context"
	"net/http"
	"strconv"

	"resumine/internal/errors"
	"resumine/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// decodeAndValidate parses the body into req and validates it, writing a
// 4xx response on failure. It reports whether the handler should continue.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := parseJSONRequest(r, req); err != nil {
		status := http.StatusBadRequest
		if errors.HasCode(err, errRequestTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrorResponse(w, r, "Invalid request body", err.Error(), status)
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		writeErrorResponse(w, r, "Invalid request", describeValidation(err), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumine.api").Start(r.Context(), "api.extract")
	defer span.End()

	var req ExtractRequest
	if !s.decodeAndValidate(w, r, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	data := s.analyzer.Extract(ctx, req.ResumeText)
	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("extract.skills", len(data.Skills)),
	)

	writeJSON(w, r, http.StatusOK, data)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumine.api").Start(r.Context(), "api.analyze")
	defer span.End()

	var req AnalyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	source := req.Source
	if source == "" {
		source = defaultSource
	}

	result := s.analyzer.AnalyzeText(ctx, source, req.ResumeText)
	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Bool("analysis.success", result.Success),
	)

	s.autoSave(ctx, w, types.KindResumeAnalysis, result)
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) screenHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumine.api").Start(r.Context(), "api.screen")
	defer span.End()

	var req ScreenRequest
	if !s.decodeAndValidate(w, r, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	analysis := s.analyzer.AnalyzeText(ctx, defaultSource, req.ResumeText)
	result := s.analyzer.Screen(ctx, analysis, req.JobRequirements)
	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.requirements_length", len(req.JobRequirements)),
	)

	s.autoSave(ctx, w, types.KindCandidateScreening, result)
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) questionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("resumine.api").Start(r.Context(), "api.questions")
	defer span.End()

	var req QuestionsRequest
	if !s.decodeAndValidate(w, r, &req) {
		span.SetStatus(codes.Error, "invalid request")
		return
	}

	analysis := s.analyzer.AnalyzeText(ctx, defaultSource, req.ResumeText)
	result := s.analyzer.InterviewQuestions(ctx, analysis, req.JobDescription)
	span.SetAttributes(
		attribute.Int("request.resume_length", len(req.ResumeText)),
		attribute.Int("request.job_length", len(req.JobDescription)),
	)

	s.autoSave(ctx, w, types.KindInterviewQuestions, result)
	writeJSON(w, r, http.StatusOK, result)
}

// autoSave persists v when auto-save is on and names it in X-Result-Name.
// A failed save is logged; the response still carries the result.
func (s *Server) autoSave(ctx context.Context, w http.ResponseWriter, kind string, v any) {
	if !s.AutoSave || s.store == nil {
		return
	}
	saved, err := s.store.Save(ctx, kind, v)
	if err != nil {
		s.Logger.LogError(err, "Failed to auto-save result", "kind", kind)
		return
	}
	w.Header().Set("X-Result-Name", saved.Name)
}

func (s *Server) listResultsHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorResponse(w, r, "Result store unavailable", "no result store configured", http.StatusServiceUnavailable)
		return
	}

	limit := s.ListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorResponse(w, r, "Invalid limit", "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	saved, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeAppError(w, r, "Failed to list results", err)
		return
	}
	if saved == nil {
		saved = []types.SavedResult{}
	}

	writeJSON(w, r, http.StatusOK, types.SavedResultList{Backend: s.store.Backend(), Results: saved})
}

func (s *Server) getResultHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErrorResponse(w, r, "Result store unavailable", "no result store configured", http.StatusServiceUnavailable)
		return
	}

	payload, err := s.store.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeAppError(w, r, "Failed to load result", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.Logger.Warn("Failed to write result payload", "error", err)
	}
}
