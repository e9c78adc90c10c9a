// Package dictionary is the read side of the learner's vocabulary as seen by
// the annotator: a mapping from lower-cased word to its learning record.
package dictionary

import (
	"context"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"wordtap/model"
)

// Dictionary resolves lookup keys to vocabulary records. Keys that are not
// present are simply absent from the result; that is not an error.
type Dictionary interface {
	Lookup(ctx context.Context, keys []string) (map[string]model.DictionaryWord, error)
}

// Key normalizes a word into a lookup key.
func Key(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Mapping is an in-memory Dictionary keyed by Key(word). It is read-only once
// built, so it is safe for concurrent use.
type Mapping map[string]model.DictionaryWord

// NewMapping indexes words by key. Later duplicates win; blank words are skipped.
func NewMapping(words []model.DictionaryWord) Mapping {
	m := make(Mapping, len(words))
	for _, w := range words {
		k := Key(w.Word)
		if k == "" {
			continue
		}
		m[k] = w
	}
	return m
}

func (m Mapping) Lookup(ctx context.Context, keys []string) (map[string]model.DictionaryWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]model.DictionaryWord, len(keys))
	for _, k := range keys {
		if w, ok := m[k]; ok {
			out[k] = w
		}
	}
	return out, nil
}

// Load reads a YAML (or JSON) list of words. Every entry needs a word and, if
// it has a progress score, a finite one.
func Load(path string) ([]model.DictionaryWord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dictionary %s", path)
	}
	var words []model.DictionaryWord
	if err := yaml.Unmarshal(b, &words); err != nil {
		return nil, errors.Wrapf(err, "parse dictionary %s", path)
	}
	for i, w := range words {
		if Key(w.Word) == "" {
			return nil, errors.Errorf("dictionary %s: entry %d has no word", path, i)
		}
		if p := w.Progress; p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return nil, errors.Errorf("dictionary %s: word %q has non-finite progress %v", path, w.Word, *p)
		}
	}
	return words, nil
}
