package analyze

import (
	"context"
	"math"
	"sort"

	"wordtap/ingest"
	"wordtap/model"
	"wordtap/progress"
)

type LexEntry = model.LexEntry

// Analysis summarises how much of a passage the learner already knows.
type Analysis struct {
	PassageID     string                  `json:"passage_id"`
	SegmentCount  int                     `json:"segment_count"`
	WordCount     int                     `json:"word_count"`
	UniqueWords   int                     `json:"unique_words"`
	KnownWords    int                     `json:"known_words"`
	UnknownWords  []string                `json:"unknown_words,omitempty"`
	Buckets       map[progress.Bucket]int `json:"buckets"`
	ReadyToRepeat []string                `json:"ready_to_repeat,omitempty"`
	// Coverage is the share of distinct words found in the dictionary.
	Coverage float64 `json:"coverage"`
}

// Analyze counts words per learning bucket. Buckets and KnownWords count
// distinct words, not occurrences.
func Analyze(ctx context.Context, passage ingest.Passage, entries []LexEntry) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		PassageID:    passage.ID,
		SegmentCount: len(entries),
		Buckets:      emptyBuckets(),
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		if !e.Segment.IsWord {
			continue
		}
		a.WordCount++
		key := e.Segment.OriginalWord
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if !e.Found {
			a.UnknownWords = append(a.UnknownWords, key)
			continue
		}
		a.KnownWords++
		a.Buckets[e.Bucket]++
		if e.Word != nil && e.Word.IsReadyToRepeat {
			a.ReadyToRepeat = append(a.ReadyToRepeat, key)
		}
	}
	a.UniqueWords = len(seen)
	if a.UniqueWords > 0 {
		a.Coverage = float64(a.KnownWords) / float64(a.UniqueWords)
	}
	sort.Strings(a.UnknownWords)
	sort.Strings(a.ReadyToRepeat)
	return a, nil
}

// VocabularyStats is the profile view of the whole dictionary.
type VocabularyStats struct {
	Total           int                     `json:"total"`
	Buckets         map[progress.Bucket]int `json:"buckets"`
	ReadyToRepeat   int                     `json:"ready_to_repeat"`
	AverageProgress float64                 `json:"average_progress"`
}

func Vocabulary(words []model.DictionaryWord) VocabularyStats {
	s := VocabularyStats{Total: len(words), Buckets: emptyBuckets()}
	var sum float64
	for _, w := range words {
		s.Buckets[w.Bucket()]++
		if w.IsReadyToRepeat {
			s.ReadyToRepeat++
		}
		if p := w.Progress; p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) {
			sum += *w.Progress
		}
	}
	if s.Total > 0 {
		// unscored and non-finite words count as zero
		s.AverageProgress = sum / float64(s.Total)
	}
	return s
}

func emptyBuckets() map[progress.Bucket]int {
	m := make(map[progress.Bucket]int, len(progress.Buckets))
	for _, b := range progress.Buckets {
		m[b] = 0
	}
	return m
}
