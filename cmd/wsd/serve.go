package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/runtime"
	srv "github.com/mohammad-safakhou/wsd/internal/server"
	"github.com/spf13/cobra"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server and the batch scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return withResources(ctx, *cfgPath, func(ctx context.Context, r *resources) error {
				if addr == "" {
					addr = r.cfg.Server.Address
				}
				deps, err := serverDeps(ctx, r)
				if err != nil {
					return err
				}
				if runner, ok := deps.Runner.(*batch.Runner); ok {
					batch.NewScheduler(runner, r.cfg.Batch, r.rdb).Start(ctx)
				}
				return srv.Run(ctx, srv.New(deps), addr)
			})
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default server.address)")
	return serve
}

func serverDeps(ctx context.Context, r *resources) (srv.Deps, error) {
	methods := r.disambiguators()
	deps := srv.Deps{Wiki: methods["wiki"]}
	if d, ok := methods["wordnet"]; ok {
		deps.WordNet = d
	}

	st, err := r.runStore(ctx)
	if err != nil {
		return deps, err
	}
	deps.Runs = st
	runner, err := r.runner(ctx)
	if err != nil {
		return deps, err
	}
	deps.Runner = runner

	evaluator, oracle, err := r.evaluator()
	if err != nil {
		return deps, err
	}
	deps.Evaluator, deps.Oracle = evaluator, oracle

	secret, err := runtime.LoadJWTSecret(r.cfg)
	switch {
	case err == nil:
		deps.JWTSecret = secret
	case errors.Is(err, runtime.ErrNoSecret):
		r.logger.Warnw("run creation is not protected", "reason", err.Error())
	default:
		return deps, err
	}
	return deps, nil
}
