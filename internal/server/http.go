// Package server exposes the resume analyzer over HTTP.
package server

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"resumine/internal/ai"
	"resumine/internal/analyzer"
	"resumine/internal/config"
	"resumine/internal/errors"
	"resumine/internal/observability"
	"resumine/internal/results"

	"github.com/go-playground/validator/v10"
)

// Server holds configuration and dependencies for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// AutoSave persists every analysis, screening and question result
	AutoSave  bool
	ListLimit int

	Logger *errors.Logger

	analyzer  *analyzer.Analyzer
	ai        *ai.Service
	store     results.Store
	om        *observability.ObservabilityManager
	validate  *validator.Validate
	out       io.Writer
	startedAt time.Time
	requests  atomic.Int64
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
	AutoSave       bool
	ListLimit      int
}

// Dependencies are the services behind the API. Store may be nil, in
// which case the /results endpoints answer 503.
type Dependencies struct {
	Analyzer      *analyzer.Analyzer
	AI            *ai.Service
	Store         results.Store
	Observability *observability.ObservabilityManager
}

// ConfigFromApp maps the application config to a ServerConfig
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
		AutoSave:       cfg.Results.AutoSave,
		ListLimit:      cfg.Results.ListLimit,
	}
}

// NewServer creates a Server. A nil deps.Observability disables tracing and metrics.
func NewServer(cfg ServerConfig, deps Dependencies, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	om := deps.Observability
	if om == nil {
		// A disabled manager never fails
		om, _ = observability.NewObservabilityManager(observability.ObservabilityConfig{}, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		AutoSave:       cfg.AutoSave,
		ListLimit:      cfg.ListLimit,
		Logger:         logger,
		analyzer:       deps.Analyzer,
		ai:             deps.AI,
		store:          deps.Store,
		om:             om,
		validate:       newValidator(),
		out:            os.Stdout,
		startedAt:      time.Now(),
	}
}
