package cli

import (
	"context"

	"resumine/internal/common"
	"resumine/internal/types"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var opts common.CommandConfig
	var referenceYear int

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Analyze resumes as they appear in a directory",
		Long: `Watch a directory and analyze every .txt resume that is created or
modified, until interrupted. Each result is printed (--output keeps the latest)
and, with --save, persisted as a resume_analysis result.`,
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

			return a.Watch(cmd.Context(), args[0], func(result types.AnalysisResult) {
				_, err := common.RunCommand(cmd.Context(), runner, opts, types.KindResumeAnalysis,
					func(context.Context) (types.AnalysisResult, error) { return result, nil })
				if err != nil {
					logger.LogError(err, "Failed to report watched resume", "file", result.FilePath)
				}
			})
		},
	}

	addOutputFlags(cmd, &opts, true)
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "Reference year for the year-span experience estimate (default: current year)")
	return cmd
}
