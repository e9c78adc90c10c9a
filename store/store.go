package store

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"wordtap/dictionary"
	"wordtap/model"
)

// lookupBatch bounds the number of keys sent to the driver per query.
const lookupBatch = 500

// Store provides access to the learner's vocabulary.
type Store struct {
	driver Driver
}

// New creates a new instance of Store.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// UpsertWord stores the record under its normalized key. A NaN score is
// stored as zero; an infinite one is rejected.
func (s *Store) UpsertWord(ctx context.Context, upsert *UpsertWord) (*Word, error) {
	key := dictionary.Key(upsert.Word)
	if key == "" {
		return nil, errors.New("word must not be empty")
	}
	normalized := *upsert
	normalized.Word = key
	switch {
	case math.IsNaN(normalized.Progress):
		normalized.Progress = 0
	case math.IsInf(normalized.Progress, 0):
		return nil, errors.Errorf("word %q: progress must be finite", key)
	}
	if normalized.Translations == nil {
		normalized.Translations = []string{}
	}
	return s.driver.UpsertWord(ctx, &normalized)
}

func (s *Store) ListWords(ctx context.Context, find *FindWord) ([]*Word, error) {
	if find == nil {
		find = &FindWord{}
	}
	return s.driver.ListWords(ctx, find)
}

// GetWord returns nil, nil when the word is not stored.
func (s *Store) GetWord(ctx context.Context, word string) (*Word, error) {
	key := dictionary.Key(word)
	list, err := s.driver.ListWords(ctx, &FindWord{Word: &key})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteWord(ctx context.Context, delete *DeleteWord) error {
	return s.driver.DeleteWord(ctx, &DeleteWord{Word: dictionary.Key(delete.Word)})
}

// Lookup implements dictionary.Dictionary.
func (s *Store) Lookup(ctx context.Context, keys []string) (map[string]model.DictionaryWord, error) {
	out := make(map[string]model.DictionaryWord, len(keys))
	for start := 0; start < len(keys); start += lookupBatch {
		end := min(start+lookupBatch, len(keys))
		list, err := s.driver.ListWords(ctx, &FindWord{Words: keys[start:end]})
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up words")
		}
		for _, w := range list {
			out[w.Word] = w.ToDictionaryWord()
		}
	}
	return out, nil
}

// Seed upserts every word, typically from a dictionary file at startup.
func (s *Store) Seed(ctx context.Context, words []model.DictionaryWord) (int, error) {
	for i, w := range words {
		upsert := &UpsertWord{
			Word:          w.Word,
			Translations:  w.Translations,
			ReadyToRepeat: w.IsReadyToRepeat,
		}
		if w.Progress != nil {
			upsert.Progress = *w.Progress
		}
		if _, err := s.UpsertWord(ctx, upsert); err != nil {
			return i, errors.Wrapf(err, "seed word %q", w.Word)
		}
	}
	return len(words), nil
}

// AllWords pages through the whole vocabulary.
func (s *Store) AllWords(ctx context.Context) ([]model.DictionaryWord, error) {
	const page = 1000
	var out []model.DictionaryWord
	for offset := 0; ; offset += page {
		limit, off := page, offset
		list, err := s.driver.ListWords(ctx, &FindWord{Limit: &limit, Offset: &off})
		if err != nil {
			return nil, err
		}
		for _, w := range list {
			out = append(out, w.ToDictionaryWord())
		}
		if len(list) < page {
			return out, nil
		}
	}
}
