package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/wsd/internal/similarity"
)

type EvalHandler struct {
	evaluator Evaluator
	oracle    similarity.Oracle
}

func (h *EvalHandler) Register(api *echo.Group) {
	api.POST("/eval/correlation", h.correlation)
	api.POST("/eval/convex", h.convex)
	api.POST("/similarity", h.similarity)
}

func (h *EvalHandler) correlation(c echo.Context) error {
	if h.evaluator == nil {
		return errUnconfigured
	}
	var req CorrelationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	table, err := h.evaluator.Correlation(c.Request().Context(), req.Datasets)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, table)
}

func (h *EvalHandler) convex(c echo.Context) error {
	if h.evaluator == nil {
		return errUnconfigured
	}
	var req ConvexRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if req.Dataset == "" || req.Base == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "dataset and base are required")
	}
	sweep, err := h.evaluator.Convex(c.Request().Context(), req.Dataset, req.Base)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sweep)
}

// similarity scores each pair with the oracle; unavailable scores are null.
func (h *EvalHandler) similarity(c echo.Context) error {
	var req SimilarityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	pairs := make([][2]string, 0, len(req.Pairs))
	for i, p := range req.Pairs {
		if len(p) != 2 {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("pairs[%d] must have exactly two words", i))
		}
		pairs = append(pairs, [2]string{p[0], p[1]})
	}
	oracle := h.oracle
	if oracle == nil {
		oracle = similarity.Unavailable{}
	}
	return c.JSON(http.StatusOK, map[string][]similarity.Pair{
		"results": similarity.Batch(c.Request().Context(), oracle, pairs),
	})
}
