package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"wordtap/analyze"
	"wordtap/dictionary"
	"wordtap/progress"
	"wordtap/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type wordResponse struct {
	Word            string          `json:"word"`
	Translations    []string        `json:"translations"`
	Progress        float64         `json:"progress"`
	Bucket          progress.Bucket `json:"bucket"`
	IsReadyToRepeat bool            `json:"is_ready_to_repeat"`
	CreatedTs       int64           `json:"created_ts"`
	UpdatedTs       int64           `json:"updated_ts"`
}

type listWordsResponse struct {
	Words    []wordResponse `json:"words"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}

type upsertWordRequest struct {
	Translations    []string `json:"translations"`
	Progress        *float64 `json:"progress"`
	IsReadyToRepeat bool     `json:"is_ready_to_repeat"`
}

type statsResponse struct {
	Vocabulary analyze.VocabularyStats `json:"vocabulary"`
	Styles     progress.Styles         `json:"styles"`
}

type stylesResponse struct {
	Styles     progress.Styles         `json:"styles"`
	Thresholds map[progress.Bucket]int `json:"thresholds"`
}

func convertWord(w *store.Word) wordResponse {
	translations := w.Translations
	if translations == nil {
		translations = []string{}
	}
	return wordResponse{
		Word:            w.Word,
		Translations:    translations,
		Progress:        w.Progress,
		Bucket:          progress.Classify(w.Progress),
		IsReadyToRepeat: w.ReadyToRepeat,
		CreatedTs:       w.CreatedTs,
		UpdatedTs:       w.UpdatedTs,
	}
}

// queryInt parses an optional positive integer query parameter.
func queryInt(c echo.Context, name string, def, upper int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || (upper > 0 && n > upper) {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

// ListWords returns one page of the vocabulary ordered by word.
// GET /api/v1/words?page=&page_size=&ready=
func (s *Server) ListWords(c echo.Context) error {
	page, err := queryInt(c, "page", 1, 0)
	if err != nil {
		return err
	}
	pageSize, err := queryInt(c, "page_size", defaultPageSize, maxPageSize)
	if err != nil {
		return err
	}

	// fetch one extra row to learn whether another page exists
	limit, offset := pageSize+1, (page-1)*pageSize
	find := &store.FindWord{Limit: &limit, Offset: &offset}
	if raw := c.QueryParam("ready"); raw != "" {
		ready, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ready")
		}
		find.ReadyToRepeat = &ready
	}

	list, err := s.Store.ListWords(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list words").SetInternal(err)
	}
	resp := listWordsResponse{Words: []wordResponse{}, Page: page, PageSize: pageSize}
	if len(list) > pageSize {
		resp.HasMore = true
		list = list[:pageSize]
	}
	for _, w := range list {
		resp.Words = append(resp.Words, convertWord(w))
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /api/v1/words/:word
func (s *Server) GetWord(c echo.Context) error {
	w, err := s.Store.GetWord(c.Request().Context(), c.Param("word"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get word").SetInternal(err)
	}
	if w == nil {
		return echo.NewHTTPError(http.StatusNotFound, "word not found")
	}
	return c.JSON(http.StatusOK, convertWord(w))
}

// UpsertWord replaces the record for a word. An omitted progress keeps the
// stored score.
// PUT /api/v1/words/:word
func (s *Server) UpsertWord(c echo.Context) error {
	key := dictionary.Key(c.Param("word"))
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "word must not be empty")
	}
	var req upsertWordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	ctx := c.Request().Context()
	upsert := &store.UpsertWord{
		Word:          key,
		Translations:  req.Translations,
		ReadyToRepeat: req.IsReadyToRepeat,
	}
	if req.Progress != nil {
		upsert.Progress = *req.Progress
	} else {
		existing, err := s.Store.GetWord(ctx, key)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to get word").SetInternal(err)
		}
		if existing != nil {
			upsert.Progress = existing.Progress
		}
	}

	w, err := s.Store.UpsertWord(ctx, upsert)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to upsert word").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertWord(w))
}

// DELETE /api/v1/words/:word
func (s *Server) DeleteWord(c echo.Context) error {
	if err := s.Store.DeleteWord(c.Request().Context(), &store.DeleteWord{Word: c.Param("word")}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete word").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats summarises the whole vocabulary for the profile screen.
// GET /api/v1/stats
func (s *Server) Stats(c echo.Context) error {
	words, err := s.Store.AllWords(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load vocabulary").SetInternal(err)
	}
	return c.JSON(http.StatusOK, statsResponse{
		Vocabulary: analyze.Vocabulary(words),
		Styles:     s.styles,
	})
}

// GET /api/v1/progress/styles
func (s *Server) Styles(c echo.Context) error {
	return c.JSON(http.StatusOK, stylesResponse{
		Styles: s.styles,
		Thresholds: map[progress.Bucket]int{
			progress.New:      0,
			progress.Learning: progress.LearningThreshold,
			progress.Mastered: progress.MasteredThreshold,
		},
	})
}
