package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"wordtap/ingest"
	"wordtap/model"
)

type tokenizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type tokenizeResponse struct {
	Segments []model.Segment `json:"segments"`
}

type annotateRequest struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Language string `json:"language"`
}

// Tokenize splits text into segments without touching the dictionary.
// POST /api/v1/tokenize
func (s *Server) Tokenize(c echo.Context) error {
	var req tokenizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	lang := ingest.NormalizeLanguage(req.Language)
	return c.JSON(http.StatusOK, tokenizeResponse{Segments: s.Annotator.Segment(lang, req.Text)})
}

// Annotate ingests a passage and returns it segmented, resolved and analysed.
// POST /api/v1/annotate
func (s *Server) Annotate(c echo.Context) error {
	var req annotateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	p, err := ingest.NewPassage(req.Text, req.Source, req.Language)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyText) || errors.Is(err, ingest.ErrUnknownSource) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	ann, err := s.Annotator.Annotate(c.Request().Context(), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to annotate passage").SetInternal(err)
	}
	return c.JSON(http.StatusOK, ann)
}
