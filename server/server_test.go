package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordtap/annotate"
	"wordtap/metrics"
	"wordtap/model"
	"wordtap/profile"
	"wordtap/progress"
	"wordtap/store"
	"wordtap/store/db/memory"
	"wordtap/tokenize"
)

func ptr(f float64) *float64 { return &f }

func newTestServer(t *testing.T, opts ...annotate.Option) *Server {
	t.Helper()
	st := store.New(memory.NewDB())
	_, err := st.Seed(context.Background(), []model.DictionaryWord{
		{Word: "привет", Progress: ptr(7), Translations: []string{"hi"}, IsReadyToRepeat: true},
		{Word: "мир", Progress: ptr(4)},
		{Word: "hello", Progress: ptr(1)},
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	a := annotate.New(st, append([]annotate.Option{annotate.WithMetrics(metrics.MustNew(reg))}, opts...)...)
	p := &profile.Profile{Mode: "dev", Addr: "127.0.0.1", Port: 0}
	return New(p, st, a, WithGatherer(reg))
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestTokenize(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/tokenize", `{"text":"Hello, world!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[tokenizeResponse](t, rec)
	require.Len(t, resp.Segments, 3)
	assert.Equal(t, "Hello,", resp.Segments[0].Text)
	assert.Equal(t, "hello", resp.Segments[0].OriginalWord)
	assert.True(t, resp.Segments[0].IsWordWithPunctuation)

	rec = do(t, s, http.MethodPost, "/api/v1/tokenize", `{"text":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"segments":[]}`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/tokenize", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotate(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/annotate", `{"text":"  Привет, мир! Пока.  ","source":"chat"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	ann := decode[annotate.Annotation](t, rec)
	assert.Equal(t, "Привет, мир! Пока.", ann.Passage.Text)
	require.Len(t, ann.Entries, 5)
	assert.Equal(t, progress.Mastered, ann.Entries[0].Bucket)
	assert.Equal(t, progress.Learning, ann.Entries[2].Bucket)
	assert.False(t, ann.Entries[4].Found)
	assert.Equal(t, []string{"пока"}, ann.Analysis.UnknownWords)
	assert.Equal(t, []string{"привет"}, ann.Analysis.ReadyToRepeat)

	rec = do(t, s, http.MethodPost, "/api/v1/annotate", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/annotate", `{"text":"hi","source":"email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wordtap_annotate_passages_total{source="chat"} 1`)
}

func TestListWordsPagination(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	for i := 0; i < 22; i++ {
		_, err := s.Store.UpsertWord(ctx, &store.UpsertWord{Word: fmt.Sprintf("w%02d", i), ReadyToRepeat: i%2 == 0})
		require.NoError(t, err)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/words", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[listWordsResponse](t, rec)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, defaultPageSize, first.PageSize)
	assert.Len(t, first.Words, 20)
	assert.True(t, first.HasMore)
	assert.Equal(t, "hello", first.Words[0].Word)

	rec = do(t, s, http.MethodGet, "/api/v1/words?page=3&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	last := decode[listWordsResponse](t, rec)
	assert.Len(t, last.Words, 5)
	assert.False(t, last.HasMore)

	rec = do(t, s, http.MethodGet, "/api/v1/words?page=9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[listWordsResponse](t, rec).Words)

	rec = do(t, s, http.MethodGet, "/api/v1/words?ready=true&page_size=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	// 11 even-numbered wNN words plus привет
	assert.Len(t, decode[listWordsResponse](t, rec).Words, 12)

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=101", "ready=maybe"} {
		rec = do(t, s, http.MethodGet, "/api/v1/words?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestWordLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/words/кот", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/v1/words/Кот", `{"translations":["cat"],"progress":3.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	w := decode[wordResponse](t, rec)
	assert.Equal(t, "кот", w.Word)
	assert.Equal(t, progress.Learning, w.Bucket)

	rec = do(t, s, http.MethodPut, "/api/v1/words/кот", `{"translations":["cat","tomcat"],"is_ready_to_repeat":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	w = decode[wordResponse](t, rec)
	assert.InDelta(t, 3.5, w.Progress, 1e-9, "omitted progress keeps the stored score")
	assert.Equal(t, []string{"cat", "tomcat"}, w.Translations)
	assert.True(t, w.IsReadyToRepeat)

	rec = do(t, s, http.MethodGet, "/api/v1/words/КОТ", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "кот", decode[wordResponse](t, rec).Word)

	rec = do(t, s, http.MethodDelete, "/api/v1/words/кот", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/words/кот", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsAndStyles(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[statsResponse](t, rec)
	assert.Equal(t, 3, stats.Vocabulary.Total)
	assert.Equal(t, 1, stats.Vocabulary.Buckets[progress.Mastered])
	assert.Equal(t, 1, stats.Vocabulary.Buckets[progress.Learning])
	assert.Equal(t, 1, stats.Vocabulary.Buckets[progress.New])
	assert.Equal(t, 1, stats.Vocabulary.ReadyToRepeat)
	assert.InDelta(t, 4.0, stats.Vocabulary.AverageProgress, 1e-9)

	rec = do(t, s, http.MethodGet, "/api/v1/progress/styles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	styles := decode[stylesResponse](t, rec)
	assert.Equal(t, progress.DefaultStyles()[progress.Mastered], styles.Styles[progress.Mastered])
	assert.Equal(t, progress.MasteredThreshold, styles.Thresholds[progress.Mastered])
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestTokenizeRoutesLanguageCaseInsensitively(t *testing.T) {
	ja := tokenize.SegmenterFunc(func(text string) []model.Segment {
		return []model.Segment{{Text: text, IsWord: true, OriginalWord: "routed", End: len(text)}}
	})
	s := newTestServer(t, annotate.WithSegmenter("ja", ja))

	for _, lang := range []string{"ja", "JA", " Ja "} {
		rec := do(t, s, http.MethodPost, "/api/v1/tokenize", `{"text":"猫 犬","language":"`+lang+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[tokenizeResponse](t, rec)
		require.Len(t, resp.Segments, 1, lang)
		assert.Equal(t, "routed", resp.Segments[0].OriginalWord, lang)
	}

	rec := do(t, s, http.MethodPost, "/api/v1/annotate", `{"text":"猫 犬","language":"JA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[annotate.Annotation](t, rec).Entries, 1)
}

func TestTokenizeMetricsIgnoreUnknownLanguages(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 20; i++ {
		rec := do(t, s, http.MethodPost, "/api/v1/tokenize", fmt.Sprintf(`{"text":"hi","language":"x%d"}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wordtap_tokenize_duration_seconds_count{language="default"} 20`)
	assert.NotContains(t, rec.Body.String(), `language="x0"`)
}

func TestInfiniteProgressIsRejected(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Store.Seed(context.Background(), []model.DictionaryWord{{Word: "cat", Progress: ptr(math.Inf(1))}})
	require.Error(t, err)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/v1/stats", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/v1/words", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/v1/words/cat", "").Code)
}

func TestDebugFollowsMode(t *testing.T) {
	s := newTestServer(t)
	assert.True(t, s.echo.Debug)

	prod := New(&profile.Profile{Mode: "prod"}, s.Store, s.Annotator)
	assert.False(t, prod.echo.Debug)
}
