// Package memory is a store driver that keeps the vocabulary in process
// memory. Each DB owns its own state; nothing is shared between instances.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"wordtap/store"
)

type DB struct {
	mu     sync.RWMutex
	words  map[string]*store.Word
	nextID int32
}

// NewDB creates an empty in-memory driver.
func NewDB() *DB {
	return &DB{words: map[string]*store.Word{}, nextID: 1}
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) UpsertWord(ctx context.Context, upsert *store.UpsertWord) (*store.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().Unix()
	w, ok := d.words[upsert.Word]
	if !ok {
		w = &store.Word{ID: d.nextID, Word: upsert.Word, CreatedTs: now}
		d.nextID++
		d.words[upsert.Word] = w
	}
	w.Translations = slices.Clone(upsert.Translations)
	w.Progress = upsert.Progress
	w.ReadyToRepeat = upsert.ReadyToRepeat
	w.UpdatedTs = now
	return clone(w), nil
}

func (d *DB) ListWords(ctx context.Context, find *store.FindWord) ([]*store.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if find.Words != nil && len(find.Words) == 0 {
		return []*store.Word{}, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	var in map[string]struct{}
	if find.Words != nil {
		in = make(map[string]struct{}, len(find.Words))
		for _, k := range find.Words {
			in[k] = struct{}{}
		}
	}

	list := make([]*store.Word, 0)
	for _, w := range d.words {
		if v := find.Word; v != nil && w.Word != *v {
			continue
		}
		if in != nil {
			if _, ok := in[w.Word]; !ok {
				continue
			}
		}
		if v := find.ReadyToRepeat; v != nil && w.ReadyToRepeat != *v {
			continue
		}
		list = append(list, clone(w))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Word < list[j].Word })

	if find.Offset != nil {
		list = list[min(max(*find.Offset, 0), len(list)):]
	}
	if find.Limit != nil {
		list = list[:min(max(*find.Limit, 0), len(list))]
	}
	return list, nil
}

func (d *DB) DeleteWord(ctx context.Context, del *store.DeleteWord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.words, del.Word)
	return nil
}

func clone(w *store.Word) *store.Word {
	c := *w
	c.Translations = slices.Clone(w.Translations)
	return &c
}
