package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/wsd/internal/batch"
	"github.com/mohammad-safakhou/wsd/internal/lesk"
)

type LeskHandler struct {
	wordnet batch.Disambiguator
	wiki    batch.Disambiguator
}

func (h *LeskHandler) Register(g *echo.Group) {
	g.POST("/wordnet", h.disambiguate(func() batch.Disambiguator { return h.wordnet }))
	g.POST("/wiki", h.disambiguate(func() batch.Disambiguator { return h.wiki }))
}

// disambiguate answers with the lesk.Result; a target without senses is a 200
// with best_sense null.
func (h *LeskHandler) disambiguate(pick func() batch.Disambiguator) echo.HandlerFunc {
	return func(c echo.Context) error {
		d := pick()
		if d == nil {
			return errUnconfigured
		}
		var req DisambiguateRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(err)
		}
		res, err := d.Disambiguate(c.Request().Context(), lesk.Request{Sentence: req.Sentence, Target: req.Target, POS: req.POS})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}
