package cli

import (
	"context"
	"strings"

	"resumine/internal/common"
	"resumine/internal/extract"
	"resumine/internal/types"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var opts common.CommandConfig
	var referenceYear int

	cmd := &cobra.Command{
		Use:   "extract [resume-file]",
		Short: "Extract structured data from a resume without calling the AI model",
		Long: `Extract the candidate name, skills, years of experience, education,
contact details and work history from a plain-text (.txt) resume.
Extraction is deterministic and works offline.

Recognized skills: ` + strings.Join(extract.Vocabulary(), ", "),
		Args:    cobra.ExactArgs(1),
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			_, err = common.RunCommand(cmd.Context(), runner, opts, types.KindResumeExtraction,
				func(ctx context.Context) (types.ExtractedData, error) {
					text, err := a.ReadResume(args[0])
					if err != nil {
						return types.ExtractedData{}, err
					}
					return a.Extract(ctx, text), nil
				})
			return err
		},
	}

	addOutputFlags(cmd, &opts, true)
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "Reference year for the year-span experience estimate (default: current year)")
	return cmd
}
