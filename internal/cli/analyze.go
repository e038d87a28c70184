package cli

import (
	"context"
	"fmt"

	"resumine/internal/common"
	"resumine/internal/types"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var opts common.CommandConfig
	var referenceYear int

	cmd := &cobra.Command{
		Use:   "analyze [resume-file]",
		Short: "Extract structured data and an AI analysis from a resume",
		Long: `Analyze a plain-text (.txt) resume: the structured record is extracted
locally and the AI model adds a narrative analysis. A resume that cannot be
read produces a failure record and a non-zero exit status.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			a, closeAI, err := newAnalyzer(cmd, referenceYear)
			if err != nil {
				return err
			}
			defer closeAI()

			runner, closeStore, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			logger.Info("Starting resume analysis", "file", args[0], "output_format", opts.OutputFormat)
			result, err := common.RunCommand(cmd.Context(), runner, opts, types.KindResumeAnalysis,
				func(ctx context.Context) (types.AnalysisResult, error) {
					return a.Analyze(ctx, args[0]), nil
				})
			if err != nil {
				return fmt.Errorf("failed to analyze resume: %w", err)
			}
			if !result.Success {
				return fmt.Errorf("analysis of %s failed: %s", args[0], result.Error)
			}
			logger.Info("Resume analysis completed successfully", "candidate_name", result.CandidateName)
			return nil
		},
	}

	addOutputFlags(cmd, &opts, true)
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "Reference year for the year-span experience estimate (default: current year)")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var opts common.CommandConfig
	var referenceYear int

	cmd := &cobra.Command{
		Use:   "batch [directory]",
		Short: "Analyze every .txt resume under a directory",
		Long: `Analyze every .txt resume found recursively under a directory, in
lexical path order. Files are processed concurrently (batch.concurrency)
and failures are reported per file without stopping the batch.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getLoggerFromContext(cmd.Context())

			a, closeAI, err := newAnalyzer(cmd, referenceYear)
			if err != nil {
				return err
			}
			defer closeAI()

			runner, closeStore, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			batch, err := common.RunCommand(cmd.Context(), runner, opts, types.KindBatchAnalysis, func(ctx context.Context) (types.BatchAnalysis, error) {
				return a.Batch(ctx, args[0])
			})
			if err != nil {
				return fmt.Errorf("failed to analyze directory: %w", err)
			}
			logger.Info("Batch analysis completed",
				"directory", args[0],
				"total", batch.Total,
				"failed", batch.Failed)
			return nil
		},
	}

	addOutputFlags(cmd, &opts, true)
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "Reference year for the year-span experience estimate (default: current year)")
	return cmd
}
