package cli

import (
	"context"
	"fmt"

	"resumine/internal/analyzer"
	"resumine/internal/common"
	"resumine/internal/types"

	"github.com/spf13/cobra"
)

// candidateAndJob analyzes the resume and reads the job text. A resume
// that cannot be analyzed is an error.
func candidateAndJob(cmd *cobra.Command, a *analyzer.Analyzer, resumePath, jobPath string) (types.AnalysisResult, string, error) {
	job, err := readJobText(cmd, jobPath)
	if err != nil {
		return types.AnalysisResult{}, "", err
	}

	result := a.Analyze(cmd.Context(), resumePath)
	if !result.Success {
		return result, "", fmt.Errorf("analysis of %s failed: %s", resumePath, result.Error)
	}
	return result, job, nil
}

func newScreenCmd() *cobra.Command {
	var opts common.CommandConfig

	cmd := &cobra.Command{
		Use:   "screen [resume-file] [requirements-file]",
		Short: "Screen a candidate against job requirements",
		Long: `Analyze a resume and ask the AI model to assess the candidate against
job requirements. Pass "-" as the requirements file to read them from stdin.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAI, err := newAnalyzer(cmd, 0)
			if err != nil {
				return err
			}
			defer closeAI()

			runner, closeStore, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			_, err = common.RunCommand(cmd.Context(), runner, opts, types.KindCandidateScreening,
				func(ctx context.Context) (types.ScreeningResult, error) {
					candidate, requirements, err := candidateAndJob(cmd, a, args[0], args[1])
					if err != nil {
						return types.ScreeningResult{}, err
					}
					return a.Screen(ctx, candidate, requirements), nil
				})
			if err != nil {
				return fmt.Errorf("failed to screen candidate: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &opts, true)
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	var opts common.CommandConfig

	cmd := &cobra.Command{
		Use:   "questions [resume-file] [job-description-file]",
		Short: "Generate interview questions for a candidate",
		Long: `Analyze a resume and ask the AI model for interview questions tailored
to the candidate and the job. Pass "-" as the job file to read it from stdin.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeAI, err := newAnalyzer(cmd, 0)
			if err != nil {
				return err
			}
			defer closeAI()

			runner, closeStore, err := newRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeStore()

			_, err = common.RunCommand(cmd.Context(), runner, opts, types.KindInterviewQuestions,
				func(ctx context.Context) (types.InterviewQuestionsResult, error) {
					candidate, job, err := candidateAndJob(cmd, a, args[0], args[1])
					if err != nil {
						return types.InterviewQuestionsResult{}, err
					}
					return a.InterviewQuestions(ctx, candidate, job), nil
				})
			if err != nil {
				return fmt.Errorf("failed to generate interview questions: %w", err)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &opts, true)
	return cmd
}
