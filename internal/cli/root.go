// Package cli implements the resumine command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"resumine/internal/ai"
	"resumine/internal/analyzer"
	"resumine/internal/common"
	"resumine/internal/config"
	"resumine/internal/errors"
	"resumine/internal/results"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resumine",
		Short: "Extract structured candidate data from plain-text resumes",
		Long: `Resumine turns plain-text resumes into structured candidate records
(name, skills, years of experience, education, contact details and work
history) and uses an AI model to analyze, screen and prepare interview
questions for candidates. Extraction works offline; AI prose needs an API key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newExtractCmd(),
		newAnalyzeCmd(),
		newBatchCmd(),
		newScreenCmd(),
		newQuestionsCmd(),
		newResultsCmd(),
		newWatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree with cfg and logger available to every subcommand
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	return newRootCmd().ExecuteContext(withDependencies(ctx, cfg, logger))
}

func withDependencies(ctx context.Context, cfg *config.Config, logger *errors.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey, cfg)
	return context.WithValue(ctx, loggerKey, logger)
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

// addOutputFlags registers -o/--output, --format and optionally --save
func addOutputFlags(cmd *cobra.Command, opts *common.CommandConfig, withSave bool) {
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Output format: json, text, or markdown")
	if withSave {
		cmd.Flags().BoolVar(&opts.Save, "save", false, "Persist the result in the result store")
	}

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// outputPreRun applies the default format and validates the chosen one
func outputPreRun(opts *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if opts.OutputFormat == "" {
			opts.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(opts.OutputFormat, cfg.App.SupportedFormats)
	}
}

// newRunner opens the result store when the command saves its result.
// The returned close function is always safe to call.
func newRunner(cmd *cobra.Command, opts common.CommandConfig) (common.Runner, func(), error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	runner := common.Runner{
		Logger: logger,
		Out:    cmd.OutOrStdout(),
		Notice: cmd.ErrOrStderr(),
	}
	if !opts.Save {
		return runner, func() {}, nil
	}

	store, err := results.Open(cfg.Results, logger)
	if err != nil {
		return runner, nil, err
	}
	runner.Store = store
	return runner, func() {
		if err := store.Close(); err != nil {
			logger.LogError(err, "Failed to close result store")
		}
	}, nil
}

// newAnalyzer wires the AI service into an analyzer. referenceYear > 0
// overrides the configured extraction year.
func newAnalyzer(cmd *cobra.Command, referenceYear int) (*analyzer.Analyzer, func(), error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	service, err := ai.NewService(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	opts := analyzer.OptionsFromConfig(cfg)
	if referenceYear > 0 {
		opts.ReferenceYear = referenceYear
	}

	return analyzer.New(service, logger, opts), func() {
		if err := service.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}, nil
}

// readJobText reads a job description file, or stdin when path is "-"
func readJobText(cmd *cobra.Command, path string) (string, error) {
	if path != "-" {
		cfg := getConfigFromContext(cmd.Context())
		return common.NewFileProcessor(getLoggerFromContext(cmd.Context()), cfg.App.MaxFileSize).ReadDocument(path)
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read job description from stdin", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyContent, "job description from stdin is empty", nil)
	}
	return string(data), nil
}
