package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/eval"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
	"github.com/mohammad-safakhou/wsd/internal/store"
	"github.com/mohammad-safakhou/wsd/internal/wordnet"
	"go.uber.org/zap"
)

var errUnconfigured = echo.NewHTTPError(http.StatusServiceUnavailable, "component not configured")

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, lesk.ErrInvalidInput),
		errors.Is(err, wordnet.ErrInvalidPOS),
		errors.Is(err, batch.ErrInvalidRequest),
		errors.Is(err, eval.ErrUnknownDataset),
		errors.Is(err, eval.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, lesk.ErrResourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// errorHandler writes every failure as {"error": msg}.
func errorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := statusOf(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		req := c.Request()
		if code >= http.StatusInternalServerError {
			logger.Errorw("request failed", "code", code, "method", req.Method, "path", req.URL.Path, "ip", c.RealIP(), "error", err)
		} else {
			logger.Debugw("request rejected", "code", code, "method", req.Method, "path", req.URL.Path, "error", err)
		}
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
