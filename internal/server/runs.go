package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/store"
)

type RunsHandler struct {
	runner BatchRunner
	runs   store.RunStore
}

// Register mounts the run routes; guard applies to run creation only.
func (h *RunsHandler) Register(g *echo.Group, guard ...echo.MiddlewareFunc) {
	g.POST("/run", h.create, guard...)
	g.GET("/runs/:run_id", h.get)
}

func (h *RunsHandler) create(c echo.Context) error {
	if h.runner == nil {
		return errUnconfigured
	}
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	sum, err := h.runner.Run(c.Request().Context(), batch.Request{
		Target: req.Target,
		Limit:  req.Limit,
		Method: req.Method,
		POS:    req.POS,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sum)
}

func (h *RunsHandler) get(c echo.Context) error {
	if h.runs == nil {
		return errUnconfigured
	}
	run, err := h.runs.Get(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run)
}
