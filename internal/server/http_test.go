package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"resumine/internal/ai"
	"resumine/internal/analyzer"
	"resumine/internal/config"
	"resumine/internal/errors"
	"resumine/internal/results"
	"resumine/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Smith
Senior Software Engineer
jane.smith@example.com | 555-123-4567 | Seattle, WA

Summary: 7+ years of experience building Python and Go services on AWS.

Experience
Senior Engineer at Acme Corp

Education
Bachelor of Science in Computer Science, University of Washington
`

type stubProvider struct {
	mu        sync.Mutex
	answer    string
	available bool
	calls     []string
}

func (p *stubProvider) record(op string) (string, *ai.TokenUsage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
	return p.answer, &ai.TokenUsage{TotalTokens: 10}, nil
}

func (p *stubProvider) AnalyzeResume(context.Context, string) (string, *ai.TokenUsage, error) {
	return p.record("analyze")
}

func (p *stubProvider) ScreenCandidate(context.Context, string, string) (string, *ai.TokenUsage, error) {
	return p.record("screen")
}

func (p *stubProvider) GenerateInterviewQuestions(context.Context, string, string) (string, *ai.TokenUsage, error) {
	return p.record("questions")
}

func (p *stubProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	info := &ai.ModelInfo{Name: "stub-model", Available: p.available}
	if !p.available {
		info.Error = "model not reachable"
	}
	return info
}

func (p *stubProvider) Close() error { return nil }

func newTestServer(t *testing.T, provider ai.Provider, store results.Store, mutate func(*ServerConfig)) *Server {
	t.Helper()
	logger := errors.NewNopLogger()

	cfg := ServerConfig{
		Host:           "127.0.0.1",
		Port:           "0",
		Version:        "test",
		TLSConfig:      config.TLSConfig{Mode: "disabled"},
		MaxRequestSize: 1 << 20,
		RateLimit:      &config.RateLimitConfig{},
		ListLimit:      20,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	srv := NewServer(cfg, Dependencies{
		Analyzer: analyzer.New(provider, logger, analyzer.Options{ReferenceYear: 2024}),
		AI:       ai.NewServiceWithProvider(provider, logger),
		Store:    store,
	}, logger)
	srv.out = io.Discard
	t.Cleanup(srv.closeRateLimiter)
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestExtractEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubProvider{answer: "unused"}, nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/extract", ExtractRequest{ResumeText: sampleResume}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[types.ExtractedData](t, rec)
	assert.Equal(t, "Jane Smith", data.CandidateName)
	assert.Contains(t, data.Skills, "python")
	require.NotNil(t, data.ContactInfo.Email)
	assert.Equal(t, "jane.smith@example.com", *data.ContactInfo.Email)
}

func TestRequestValidation(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, nil)
	h := srv.Handler()

	tests := []struct {
		name        string
		path        string
		body        any
		contentType string
		wantMessage string
	}{
		{
			name:        "missing resume text",
			path:        "/extract",
			body:        map[string]string{},
			wantMessage: "resumeText field is required",
		},
		{
			name:        "blank resume text",
			path:        "/analyze",
			body:        AnalyzeRequest{ResumeText: "   \n"},
			wantMessage: "resumeText field is required",
		},
		{
			name:        "missing requirements",
			path:        "/screen",
			body:        ScreenRequest{ResumeText: sampleResume},
			wantMessage: "jobRequirements field is required",
		},
		{
			name:        "missing job description",
			path:        "/questions",
			body:        QuestionsRequest{ResumeText: sampleResume},
			wantMessage: "jobDescription field is required",
		},
		{
			name:        "source too long",
			path:        "/analyze",
			body:        AnalyzeRequest{ResumeText: sampleResume, Source: strings.Repeat("x", 256)},
			wantMessage: "source must be at most 255 characters",
		},
		{
			name:        "malformed json",
			path:        "/extract",
			body:        `{"resumeText":`,
			wantMessage: "failed to parse JSON",
		},
		{
			name:        "wrong content type",
			path:        "/extract",
			body:        `{"resumeText":"x"}`,
			contentType: "text/plain",
			wantMessage: "content-type must be application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.contentType != "" {
				headers = map[string]string{"Content-Type": tt.contentType}
			}
			rec := doJSON(t, h, http.MethodPost, tt.path, tt.body, headers)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Contains(t, resp.Message, tt.wantMessage)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	provider := &stubProvider{answer: "Strong backend candidate", available: true}
	srv := newTestServer(t, provider, nil, nil)
	h := srv.Handler()

	t.Run("default source", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		result := decode[types.AnalysisResult](t, rec)
		assert.True(t, result.Success)
		assert.Equal(t, "api", result.FilePath)
		assert.Equal(t, "Jane Smith", result.CandidateName)
		assert.Equal(t, "Strong backend candidate", result.AIAnalysis)
		require.NotNil(t, result.ExtractedData)
	})

	t.Run("custom source", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume, Source: "jane.txt"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jane.txt", decode[types.AnalysisResult](t, rec).FilePath)
	})
}

func TestScreenAndQuestionsEndpoints(t *testing.T) {
	provider := &stubProvider{answer: "Good match", available: true}
	srv := newTestServer(t, provider, nil, nil)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/screen", ScreenRequest{
		ResumeText:      sampleResume,
		JobRequirements: "5+ years of Python",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	screening := decode[types.ScreeningResult](t, rec)
	assert.Equal(t, "Jane Smith", screening.CandidateName)
	assert.Equal(t, "api", screening.CandidateFile)
	assert.Equal(t, "5+ years of Python", screening.JobRequirements)
	assert.Equal(t, "Good match", screening.ScreeningAnalysis)

	rec = doJSON(t, h, http.MethodPost, "/questions", QuestionsRequest{
		ResumeText:     sampleResume,
		JobDescription: "Backend engineer",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	questions := decode[types.InterviewQuestionsResult](t, rec)
	assert.Equal(t, "Good match", questions.Questions)
	assert.Equal(t, "Backend engineer", questions.JobDescription)

	assert.Equal(t, []string{"analyze", "screen", "analyze", "questions"}, provider.calls)
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, &stubProvider{available: true}, nil, func(cfg *ServerConfig) {
		cfg.APIKeys = []string{"secret-key-123"}
	})
	h := srv.Handler()
	body := ExtractRequest{ResumeText: sampleResume}

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantError  string
	}{
		{name: "missing key", wantStatus: http.StatusUnauthorized, wantError: "Missing API key"},
		{name: "invalid key", headers: map[string]string{"X-API-Key": "wrong"}, wantStatus: http.StatusUnauthorized, wantError: "Invalid API key"},
		{name: "header key", headers: map[string]string{"X-API-Key": "secret-key-123"}, wantStatus: http.StatusOK},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer secret-key-123"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/extract", body, tt.headers)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[ErrorResponse](t, rec).Error)
			}
		})
	}

	t.Run("health stays open", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, func(cfg *ServerConfig) {
		cfg.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})
	h := srv.Handler()
	body := ExtractRequest{ResumeText: sampleResume}

	first := doJSON(t, h, http.MethodPost, "/extract", body, nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, h, http.MethodPost, "/extract", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, "Rate limit exceeded", decode[ErrorResponse](t, second).Error)

	other := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-Forwarded-For": "198.51.100.7"})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimitIgnoresUnknownAPIKeys(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, func(cfg *ServerConfig) {
		cfg.APIKeys = []string{"good-key-123"}
		cfg.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByAPIKey: true}
	})
	h := srv.Handler()
	body := ExtractRequest{ResumeText: sampleResume}

	first := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "bogus-1"})
	assert.Equal(t, http.StatusUnauthorized, first.Code)

	rotated := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "bogus-2"})
	assert.Equal(t, http.StatusTooManyRequests, rotated.Code)

	valid := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "good-key-123"})
	assert.Equal(t, http.StatusOK, valid.Code)

	assert.Equal(t, 2, srv.RateLimiter.GetStats()["active_limiters"])
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, nil)
	h := srv.Handler()

	t.Run("propagated", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/extract", map[string]string{}, map[string]string{"X-Request-ID": "req-42"})
		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-42", decode[ErrorResponse](t, rec).RequestID)
	})

	t.Run("generated", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
		assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
	})

	t.Run("oversized header replaced", func(t *testing.T) {
		long := strings.Repeat("a", maxRequestIDLength+1)
		rec := doJSON(t, h, http.MethodGet, "/health", nil, map[string]string{"X-Request-ID": long})
		assert.NotEqual(t, long, rec.Header().Get("X-Request-ID"))
	})
}

func TestRequestTooLarge(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, func(cfg *ServerConfig) {
		cfg.MaxRequestSize = 32
	})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/extract", ExtractRequest{ResumeText: sampleResume}, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Message, "limit is 32 bytes")
}

func TestResultsEndpoints(t *testing.T) {
	store := results.NewFileStore(filepath.Join(t.TempDir(), "results"), errors.NewNopLogger())
	srv := newTestServer(t, &stubProvider{answer: "ok", available: true}, store, func(cfg *ServerConfig) {
		cfg.AutoSave = true
	})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	name := rec.Header().Get("X-Result-Name")
	require.NotEmpty(t, name)

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/results", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[types.SavedResultList](t, rec)
		assert.Equal(t, results.BackendFile, list.Backend)
		require.Len(t, list.Results, 1)
		assert.Equal(t, name, list.Results[0].Name)
		assert.Equal(t, types.KindResumeAnalysis, list.Results[0].Kind)
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/results?limit=abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/results/"+name, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[types.AnalysisResult](t, rec)
		assert.Equal(t, "Jane Smith", result.CandidateName)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/results/resume_analysis_19990101_000000", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid name", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/results/..evil", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResultsWithoutStore(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/results", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		provider   ai.Provider
		wantStatus int
		wantHealth string
	}{
		{name: "offline", provider: ai.NewUnavailableProvider("gemini-2.0-flash"), wantStatus: http.StatusOK, wantHealth: "healthy"},
		{name: "model available", provider: &stubProvider{available: true}, wantStatus: http.StatusOK, wantHealth: "healthy"},
		{name: "model unreachable", provider: &stubProvider{available: false}, wantStatus: http.StatusServiceUnavailable, wantHealth: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.provider, nil, nil)
			rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.wantHealth, body["status"])
			assert.Equal(t, "test", body["version"])
		})
	}

	t.Run("offline mode reported", func(t *testing.T) {
		srv := newTestServer(t, ai.NewUnavailableProvider("gemini-2.0-flash"), nil, nil)
		rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil, nil)
		body := decode[map[string]any](t, rec)
		aiStatus, ok := body["ai"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "offline", aiStatus["mode"])
		assert.Equal(t, false, aiStatus["available"])
	})
}

func TestStatsHandler(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, func(cfg *ServerConfig) {
		cfg.APIKeys = []string{"k"}
	})
	h := srv.Handler()

	doJSON(t, h, http.MethodGet, "/health", nil, nil)
	rec := doJSON(t, h, http.MethodGet, "/stats", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(2), body["requests_total"])
	server, ok := body["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, server["auth_enabled"])
	assert.Equal(t, map[string]any{"enabled": false}, body["rate_limiting"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil, nil)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/analyze", nil, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}
