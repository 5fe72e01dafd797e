package main

import (
	"context"

	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/spf13/cobra"
)

func batchCMD(cfgPath *string) *cobra.Command {
	var req batch.Request
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Disambiguate a target word over the first AQUAINT files and store the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResources(cmd.Context(), *cfgPath, func(ctx context.Context, r *resources) error {
				runner, err := r.runner(ctx)
				if err != nil {
					return err
				}
				sum, err := runner.Run(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sum)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Target, "target", "t", "", "target word")
	cmd.Flags().IntVarP(&req.Limit, "limit", "n", 10, "number of corpus files")
	cmd.Flags().StringVarP(&req.Method, "method", "m", "wordnet", "wordnet or wiki")
	cmd.Flags().StringVar(&req.POS, "pos", "", "part of speech filter for wordnet (n, v, a, s, r)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func runsCMD(cfgPath *string) *cobra.Command {
	runs := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored batch runs",
	}
	get := &cobra.Command{
		Use:   "get <run_id>",
		Short: "Print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResources(cmd.Context(), *cfgPath, func(ctx context.Context, r *resources) error {
				st, err := r.runStore(ctx)
				if err != nil {
					return err
				}
				run, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), run)
			})
		},
	}
	runs.AddCommand(get)
	return runs
}
