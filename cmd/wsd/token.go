package main

import (
	"fmt"
	"time"

	"github.com/mohammad-safakhou/wsd/internal/runtime"
	"github.com/spf13/cobra"
)

func tokenCMD(cfgPath *string) *cobra.Command {
	var subject string
	var ttl time.Duration
	var scopes []string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a JWT for the protected API routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			secret, err := runtime.LoadJWTSecret(cfg)
			if err != nil {
				return err
			}
			tok, err := runtime.SignJWT(subject, secret, ttl, scopes...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{runtime.ScopeRunsWrite}, "granted scopes")
	return cmd
}
