package tokenize

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"wordtap/metrics"
	"wordtap/model"
)

// DefaultCacheSize is the number of distinct texts a Cached segmenter keeps.
const DefaultCacheSize = 1024

// Segmenter turns a text into segments. Segment never returns nil; an empty
// text yields an empty slice, so results encode as a JSON array.
type Segmenter interface {
	Segment(text string) []model.Segment
}

// SegmenterFunc adapts a plain function to Segmenter.
type SegmenterFunc func(text string) []model.Segment

func (f SegmenterFunc) Segment(text string) []model.Segment { return f(text) }

// Default segments Latin and Cyrillic text with Tokenize.
var Default Segmenter = SegmenterFunc(Tokenize)

// Cached memoizes another Segmenter by input text. Segmenters are pure, so a
// cached result is always what the wrapped segmenter would return.
type Cached struct {
	next    Segmenter
	cache   *lru.Cache[string, []model.Segment]
	metrics *metrics.Metrics
}

// NewCached wraps next with an LRU of the given size. m may be nil.
func NewCached(next Segmenter, size int, m *metrics.Metrics) (*Cached, error) {
	if next == nil {
		next = Default
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []model.Segment](size)
	if err != nil {
		return nil, errors.Wrap(err, "create segment cache")
	}
	return &Cached{next: next, cache: cache, metrics: m}, nil
}

// Segment returns a copy the caller is free to modify.
func (c *Cached) Segment(text string) []model.Segment {
	if segments, ok := c.cache.Get(text); ok {
		c.metrics.CacheHit()
		return slices.Clone(segments)
	}
	c.metrics.CacheMiss()
	segments := c.next.Segment(text)
	c.cache.Add(text, slices.Clone(segments))
	return segments
}

// Len reports how many texts are cached.
func (c *Cached) Len() int {
	return c.cache.Len()
}
