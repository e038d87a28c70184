package cli

import (
	"context"
	"fmt"
	"time"

	"resumine/internal/ai"
	"resumine/internal/analyzer"
	"resumine/internal/observability"
	"resumine/internal/results"
	"resumine/internal/server"

	"github.com/spf13/cobra"
)

const observabilityShutdownTimeout = 5 * time.Second

type serveFlags struct {
	host     string
	port     string
	tlsMode  string
	certFile string
	keyFile  string
	caFile   string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server exposing resume extraction and analysis.

Available endpoints:
- POST /extract: Structured data from resume text
- POST /analyze: Structured data plus AI analysis
- POST /screen: Screen a resume against job requirements
- POST /questions: Interview questions for a resume and job
- GET /results, GET /results/{name}: Saved results
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.port, "port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().StringVar(&flags.host, "host", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&flags.tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	cmd.Flags().StringVar(&flags.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	cmd.Flags().StringVar(&flags.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	cmd.Flags().StringVar(&flags.caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	return cmd
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	cfg := *getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	overrideString(&cfg.Server.Host, flags.host)
	overrideString(&cfg.Server.Port, flags.port)
	overrideString(&cfg.Server.TLS.Mode, flags.tlsMode)
	overrideString(&cfg.Server.TLS.CertFile, flags.certFile)
	overrideString(&cfg.Server.TLS.KeyFile, flags.keyFile)
	overrideString(&cfg.Server.TLS.CAFile, flags.caFile)

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(&cfg, Version), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	service, err := ai.NewService(&cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = service.Close() }()

	store, err := results.Open(cfg.Results, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := analyzer.OptionsFromConfig(&cfg)
	opts.Recorder = om.GetMetrics()

	srv := server.NewServer(server.ConfigFromApp(&cfg, Version), server.Dependencies{
		Analyzer:      analyzer.New(service, logger, opts),
		AI:            service,
		Store:         store,
		Observability: om,
	}, logger)

	logger.Info("Starting resumine server",
		"version", Version,
		"ai_available", service.Available(),
		"results_backend", store.Backend())
	return srv.Start(cmd.Context())
}
