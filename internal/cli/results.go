package cli

import (
	"context"
	"fmt"
	"strings"

	"resumine/internal/common"
	"resumine/internal/results"
	"resumine/internal/types"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse saved results",
	}
	cmd.AddCommand(newResultsListCmd(), newResultsShowCmd())
	return cmd
}

func openStore(cmd *cobra.Command) (results.Store, error) {
	cfg := getConfigFromContext(cmd.Context())
	return results.Open(cfg.Results, getLoggerFromContext(cmd.Context()))
}

func newResultsListCmd() *cobra.Command {
	var opts common.CommandConfig
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List saved results, newest first",
		Args:    cobra.NoArgs,
		PreRunE: outputPreRun(&opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !cmd.Flags().Changed("limit") {
				limit = getConfigFromContext(cmd.Context()).Results.ListLimit
			}

			runner := common.Runner{Logger: getLoggerFromContext(cmd.Context()), Out: cmd.OutOrStdout()}
			_, err = common.RunCommand(cmd.Context(), runner, opts, "", func(ctx context.Context) (types.SavedResultList, error) {
				saved, err := store.List(ctx, limit)
				if err != nil {
					return types.SavedResultList{}, err
				}
				return types.SavedResultList{Backend: store.Backend(), Results: saved}, nil
			})
			return err
		},
	}

	addOutputFlags(cmd, &opts, false)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results to list (0 lists all)")
	return cmd
}

func newResultsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a saved result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			payload, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(payload), "\n"))
			return err
		},
	}
}
