package main

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/spf13/cobra"
)

func disambiguateCMD(cfgPath *string) *cobra.Command {
	var req lesk.Request
	var method string
	cmd := &cobra.Command{
		Use:   "disambiguate <sentence>",
		Short: "Pick the sense of --target in a sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Sentence = strings.Join(args, " ")
			return withResources(cmd.Context(), *cfgPath, func(ctx context.Context, r *resources) error {
				d, err := r.disambiguator(strings.ToLower(method))
				if err != nil {
					return err
				}
				res, err := d.Disambiguate(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVarP(&req.Target, "target", "t", "", "target word")
	cmd.Flags().StringVar(&req.POS, "pos", "", "part of speech filter for wordnet (n, v, a, s, r)")
	cmd.Flags().StringVarP(&method, "method", "m", "wordnet", "wordnet or wiki")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
