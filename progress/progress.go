// Package progress buckets a word's spaced-repetition score into the three
// learning stages shown to the reader.
package progress

import "math"

// Bucket is a learning stage. The zero value means the word is not in the
// learner's dictionary at all.
type Bucket string

const (
	New      Bucket = "new"
	Learning Bucket = "learning"
	Mastered Bucket = "mastered"
)

const (
	LearningThreshold = 3
	MasteredThreshold = 6
)

// Buckets lists every stage in display order.
var Buckets = []Bucket{New, Learning, Mastered}

// Classify maps a progress score to its bucket. NaN counts as zero.
func Classify(p float64) Bucket {
	if math.IsNaN(p) {
		return New
	}
	switch {
	case p >= MasteredThreshold:
		return Mastered
	case p >= LearningThreshold:
		return Learning
	default:
		return New
	}
}

// ClassifyValue is Classify for an optional score; a missing score is zero.
func ClassifyValue(p *float64) Bucket {
	if p == nil {
		return New
	}
	return Classify(*p)
}

// Valid reports whether b is one of the three stages.
func (b Bucket) Valid() bool {
	return b == New || b == Learning || b == Mastered
}

// Style is how a bucket is drawn next to a word.
type Style struct {
	Color string `json:"color" yaml:"color" mapstructure:"color"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Icon  string `json:"icon" yaml:"icon" mapstructure:"icon"`
}

// Styles is the presentation table keyed by bucket.
type Styles map[Bucket]Style

// DefaultStyles returns the built-in presentation table.
func DefaultStyles() Styles {
	return Styles{
		New:      {Color: "#F44336", Label: "New", Icon: "star-outline"},
		Learning: {Color: "#FF9800", Label: "Learning", Icon: "school"},
		Mastered: {Color: "#4CAF50", Label: "Mastered", Icon: "check-circle"},
	}
}

// For returns the style of b. Unknown buckets and missing entries fall back
// to the default table, and the empty bucket is drawn as New.
func (s Styles) For(b Bucket) Style {
	if !b.Valid() {
		b = New
	}
	if st, ok := s[b]; ok {
		return st
	}
	return DefaultStyles()[b]
}

// Merge overlays the non-empty fields of override on top of s and returns a
// new table. Keys that are not valid buckets are ignored.
func (s Styles) Merge(override map[string]Style) Styles {
	out := make(Styles, len(Buckets))
	for _, b := range Buckets {
		out[b] = s.For(b)
	}
	for k, o := range override {
		b := Bucket(k)
		if !b.Valid() {
			continue
		}
		st := out[b]
		if o.Color != "" {
			st.Color = o.Color
		}
		if o.Label != "" {
			st.Label = o.Label
		}
		if o.Icon != "" {
			st.Icon = o.Icon
		}
		out[b] = st
	}
	return out
}
