// Package server exposes disambiguation, batch runs and evaluation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/eval"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/mohammad-safakhou/wsd/internal/runtime"
	"github.com/mohammad-safakhou/wsd/internal/similarity"
	"github.com/mohammad-safakhou/wsd/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BatchRunner starts AQUAINT runs.
type BatchRunner interface {
	Run(ctx context.Context, req batch.Request) (batch.Summary, error)
}

// Evaluator computes benchmark correlations.
type Evaluator interface {
	Correlation(ctx context.Context, datasets []string) (eval.CorrelationTable, error)
	Convex(ctx context.Context, dataset, base string) (eval.SweepResult, error)
}

// Deps are the components behind the routes. Nil components answer 503.
type Deps struct {
	WordNet   batch.Disambiguator
	Wiki      batch.Disambiguator
	Runner    BatchRunner
	Runs      store.RunStore
	Evaluator Evaluator
	Oracle    similarity.Oracle
	// JWTSecret, when set, guards POST /api/aquaint/run.
	JWTSecret []byte
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = errorHandler(logging.New("http"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	registerDocs(e)

	api := e.Group("/api")
	lh := &LeskHandler{wordnet: d.WordNet, wiki: d.Wiki}
	lh.Register(api.Group("/lesk"))

	rh := &RunsHandler{runner: d.Runner, runs: d.Runs}
	var guard []echo.MiddlewareFunc
	if len(d.JWTSecret) > 0 {
		guard = append(guard, runtime.EchoAuthMiddleware(d.JWTSecret), runtime.RequireScopes(runtime.ScopeRunsWrite))
	}
	rh.Register(api.Group("/aquaint"), guard...)

	eh := &EvalHandler{evaluator: d.Evaluator, oracle: d.Oracle}
	eh.Register(api)
	return e
}

// Run serves e on addr until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	logger := logging.New("server")
	errc := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", addr)
		errc <- e.Start(addr)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
