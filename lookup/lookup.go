package lookup

import (
	"context"

	"github.com/pkg/errors"

	"wordtap/dictionary"
	"wordtap/model"
)

type LexEntry = model.LexEntry

// Lookup resolves every word segment against dict with a single call. Words
// missing from the dictionary come back with Found false and no bucket; the
// caller renders them as plain selectable words.
func Lookup(ctx context.Context, segments []model.Segment, dict dictionary.Dictionary) ([]LexEntry, error) {
	if segments == nil {
		return nil, nil
	}
	keys := UniqueKeys(segments)

	var found map[string]model.DictionaryWord
	if dict != nil && len(keys) > 0 {
		var err error
		found, err = dict.Lookup(ctx, keys)
		if err != nil {
			return nil, errors.Wrap(err, "dictionary lookup")
		}
	}

	out := make([]LexEntry, 0, len(segments))
	for _, s := range segments {
		e := LexEntry{Segment: s}
		if s.IsWord {
			if w, ok := found[s.OriginalWord]; ok {
				w := w
				e.Word = &w
				e.Found = true
				e.Bucket = w.Bucket()
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// UniqueKeys returns the distinct lookup keys of segments in first-seen order.
func UniqueKeys(segments []model.Segment) []string {
	seen := make(map[string]struct{}, len(segments))
	keys := make([]string, 0, len(segments))
	for _, s := range segments {
		if !s.IsWord || s.OriginalWord == "" {
			continue
		}
		if _, ok := seen[s.OriginalWord]; ok {
			continue
		}
		seen[s.OriginalWord] = struct{}{}
		keys = append(keys, s.OriginalWord)
	}
	return keys
}
