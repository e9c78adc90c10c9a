// Package annotate runs a passage through segmentation, dictionary lookup and
// analysis, producing everything a reader screen needs to render it.
package annotate

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"wordtap/analyze"
	"wordtap/dictionary"
	"wordtap/ingest"
	"wordtap/lookup"
	"wordtap/metrics"
	"wordtap/model"
	"wordtap/tokenize"
)

// Annotation is a passage with its resolved segments and statistics.
type Annotation struct {
	Passage  ingest.Passage   `json:"passage"`
	Entries  []model.LexEntry `json:"entries"`
	Analysis analyze.Analysis `json:"analysis"`
}

// Select returns the lookup key of segment i when the reader taps it. Only
// word segments are selectable.
func (a *Annotation) Select(i int) (string, bool) {
	if i < 0 || i >= len(a.Entries) {
		return "", false
	}
	s := a.Entries[i].Segment
	if !s.IsWord || s.OriginalWord == "" {
		return "", false
	}
	return s.OriginalWord, true
}

type Annotator struct {
	dict       dictionary.Dictionary
	fallback   tokenize.Segmenter
	byLanguage map[string]tokenize.Segmenter
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Annotator)

// WithSegmenter routes passages in language lang to seg.
func WithSegmenter(lang string, seg tokenize.Segmenter) Option {
	return func(a *Annotator) { a.byLanguage[ingest.NormalizeLanguage(lang)] = seg }
}

// WithDefault replaces the segmenter used for unrouted languages.
func WithDefault(seg tokenize.Segmenter) Option {
	return func(a *Annotator) { a.fallback = seg }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Annotator) { a.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Annotator) { a.logger = l }
}

// New builds an Annotator over dict. A nil dict resolves nothing, so every
// word renders as unknown.
func New(dict dictionary.Dictionary, opts ...Option) *Annotator {
	a := &Annotator{
		dict:       dict,
		fallback:   tokenize.Default,
		byLanguage: map[string]tokenize.Segmenter{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Segmenter returns the segmenter used for lang.
func (a *Annotator) Segmenter(lang string) tokenize.Segmenter {
	seg, _ := a.route(lang)
	return seg
}

// route picks the segmenter for lang and the metrics label to record it
// under. Unrouted languages share the default label so clients cannot grow
// the label set.
func (a *Annotator) route(lang string) (tokenize.Segmenter, string) {
	lang = ingest.NormalizeLanguage(lang)
	if seg, ok := a.byLanguage[lang]; ok && seg != nil {
		return seg, lang
	}
	return a.fallback, metrics.DefaultLanguage
}

// Segment tokenizes text with the segmenter for lang and records metrics.
func (a *Annotator) Segment(lang, text string) []model.Segment {
	seg, label := a.route(lang)
	start := time.Now()
	segments := seg.Segment(text)
	a.metrics.ObserveTokenize(label, time.Since(start), segments)
	return segments
}

func (a *Annotator) Annotate(ctx context.Context, p ingest.Passage) (*Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	segments := a.Segment(p.Language, p.Text)

	entries, err := lookup.Lookup(ctx, segments, a.dict)
	if err != nil {
		return nil, errors.Wrapf(err, "passage %s", p.ID)
	}
	var found, missing int
	for _, e := range entries {
		if !e.Segment.IsWord {
			continue
		}
		if e.Found {
			found++
		} else {
			missing++
		}
	}
	a.metrics.ObserveLookup(found, missing)

	analysis, err := analyze.Analyze(ctx, p, entries)
	if err != nil {
		return nil, errors.Wrapf(err, "passage %s", p.ID)
	}
	a.metrics.ObservePassage(string(p.Source))

	a.logger.Debug("annotated passage",
		slog.String("id", p.ID),
		slog.String("source", string(p.Source)),
		slog.Int("segments", len(entries)),
		slog.Int("unknown", len(analysis.UnknownWords)),
	)
	return &Annotation{Passage: p, Entries: entries, Analysis: analysis}, nil
}

// Batch annotates passages with at most workers in flight. Results keep the
// input order; the first error cancels the remaining work.
func (a *Annotator) Batch(ctx context.Context, passages []ingest.Passage, workers int) ([]*Annotation, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]*Annotation, len(passages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range passages {
		g.Go(func() error {
			ann, err := a.Annotate(ctx, p)
			if err != nil {
				return err
			}
			out[i] = ann
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
