package main

import (
	"context"

	"github.com/spf13/cobra"
)

func evalCMD(cfgPath *string) *cobra.Command {
	ev := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate similarity providers against the MC, RG and WS353 judgments",
	}

	correlation := &cobra.Command{
		Use:   "correlation [dataset...]",
		Short: "Spearman correlation of every provider per dataset (all datasets when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResources(cmd.Context(), *cfgPath, func(ctx context.Context, r *resources) error {
				e, _, err := r.evaluator()
				if err != nil {
					return err
				}
				table, err := e.Correlation(ctx, args)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), table)
			})
		},
	}

	var base string
	convex := &cobra.Command{
		Use:   "convex <dataset>",
		Short: "Sweep alpha*oracle + (1-alpha)*base over alpha in 0.0..1.0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResources(cmd.Context(), *cfgPath, func(ctx context.Context, r *resources) error {
				e, _, err := r.evaluator()
				if err != nil {
					return err
				}
				sweep, err := e.Convex(ctx, args[0], base)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sweep)
			})
		},
	}
	convex.Flags().StringVar(&base, "base", "word2vec", "base embedding provider")

	ev.AddCommand(correlation, convex)
	return ev
}
