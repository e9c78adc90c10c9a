package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wordtap/model"
)

const namespace = "wordtap"

// DefaultLanguage labels text handled by the fallback segmenter.
const DefaultLanguage = "default"

// Metrics exposes Prometheus collectors for the tokenize/lookup pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	segments         *prometheus.CounterVec
	tokenizeDuration *prometheus.HistogramVec
	cacheRequests    *prometheus.CounterVec
	lookups          *prometheus.CounterVec
	passages         *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global Prometheus
// registry. Collectors are created only once so repeated calls never panic on
// duplicate registration.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew builds a Metrics instance and registers it with reg. Tests should
// pass a fresh prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		segments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tokenize",
				Name:      "segments_total",
				Help:      "Segments produced by the tokenizer, by kind.",
			},
			[]string{"kind"},
		),
		tokenizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "tokenize",
				Name:      "duration_seconds",
				Help:      "Time spent segmenting a single text.",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"language"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tokenize",
				Name:      "cache_requests_total",
				Help:      "Segment cache lookups, by result.",
			},
			[]string{"result"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dictionary",
				Name:      "lookups_total",
				Help:      "Dictionary key lookups, by result.",
			},
			[]string{"result"},
		),
		passages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "annotate",
				Name:      "passages_total",
				Help:      "Passages annotated, by source.",
			},
			[]string{"source"},
		),
	}
	reg.MustRegister(m.segments, m.tokenizeDuration, m.cacheRequests, m.lookups, m.passages)
	return m
}

// ObserveTokenize records how long segmenting took and what came out.
// language becomes a label value, so callers must pass one from a fixed set.
func (m *Metrics) ObserveTokenize(language string, d time.Duration, segments []model.Segment) {
	if m == nil {
		return
	}
	if language == "" {
		language = DefaultLanguage
	}
	m.tokenizeDuration.WithLabelValues(language).Observe(d.Seconds())

	var words, punct, spaces int
	for _, s := range segments {
		switch {
		case s.IsWord:
			words++
		case s.Text == " ":
			spaces++
		default:
			punct++
		}
	}
	m.segments.WithLabelValues("word").Add(float64(words))
	m.segments.WithLabelValues("punctuation").Add(float64(punct))
	m.segments.WithLabelValues("space").Add(float64(spaces))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues("miss").Inc()
}

// ObserveLookup records one batch of dictionary key lookups.
func (m *Metrics) ObserveLookup(found, missing int) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues("found").Add(float64(found))
	m.lookups.WithLabelValues("missing").Add(float64(missing))
}

func (m *Metrics) ObservePassage(source string) {
	if m == nil {
		return
	}
	m.passages.WithLabelValues(source).Inc()
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
