// Package teststore holds the behaviour every store driver must share.
package teststore

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordtap/store"
)

// RunDriverTests exercises a fresh driver returned by newDriver through the
// Store wrapper.
func RunDriverTests(t *testing.T, newDriver func(t *testing.T) store.Driver) {
	t.Run("upsert creates then replaces", func(t *testing.T) {
		ts := store.New(newDriver(t))
		ctx := context.Background()

		created, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: "  Hello ", Translations: []string{"привет"}, Progress: 2})
		require.NoError(t, err)
		assert.Equal(t, "hello", created.Word)
		assert.NotZero(t, created.ID)

		updated, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: "HELLO", Progress: 6.5, ReadyToRepeat: true})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		got, err := ts.GetWord(ctx, "hello")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 6.5, got.Progress)
		assert.True(t, got.ReadyToRepeat)
		assert.Empty(t, got.Translations)
		assert.NotZero(t, got.CreatedTs)
	})

	t.Run("empty word is rejected", func(t *testing.T) {
		ts := store.New(newDriver(t))
		_, err := ts.UpsertWord(context.Background(), &store.UpsertWord{Word: "   "})
		assert.Error(t, err)
	})

	t.Run("non-finite progress", func(t *testing.T) {
		ts := store.New(newDriver(t))
		ctx := context.Background()

		_, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: "cat", Progress: math.Inf(1)})
		assert.Error(t, err)
		_, err = ts.UpsertWord(ctx, &store.UpsertWord{Word: "cat", Progress: math.Inf(-1)})
		assert.Error(t, err)
		got, err := ts.GetWord(ctx, "cat")
		require.NoError(t, err)
		assert.Nil(t, got, "a rejected upsert must not store anything")

		stored, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: "dog", Progress: math.NaN()})
		require.NoError(t, err)
		assert.Zero(t, stored.Progress)
	})

	t.Run("get missing word", func(t *testing.T) {
		ts := store.New(newDriver(t))
		got, err := ts.GetWord(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list filters and paginates", func(t *testing.T) {
		ts := store.New(newDriver(t))
		ctx := context.Background()
		for i, w := range []string{"delta", "alpha", "charlie", "bravo", "echo"} {
			_, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: w, Progress: float64(i), ReadyToRepeat: i%2 == 0})
			require.NoError(t, err)
		}

		all, err := ts.ListWords(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, names(all))

		limit, offset := 2, 1
		page, err := ts.ListWords(ctx, &store.FindWord{Limit: &limit, Offset: &offset})
		require.NoError(t, err)
		assert.Equal(t, []string{"bravo", "charlie"}, names(page))

		offset = 4
		page, err = ts.ListWords(ctx, &store.FindWord{Limit: &limit, Offset: &offset})
		require.NoError(t, err)
		assert.Equal(t, []string{"echo"}, names(page))

		offset = 3
		tail, err := ts.ListWords(ctx, &store.FindWord{Offset: &offset})
		require.NoError(t, err)
		assert.Equal(t, []string{"delta", "echo"}, names(tail), "offset applies without a limit")

		ready := true
		due, err := ts.ListWords(ctx, &store.FindWord{ReadyToRepeat: &ready})
		require.NoError(t, err)
		assert.Equal(t, []string{"charlie", "delta", "echo"}, names(due))

		some, err := ts.ListWords(ctx, &store.FindWord{Words: []string{"echo", "alpha", "zulu"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "echo"}, names(some))

		none, err := ts.ListWords(ctx, &store.FindWord{Words: []string{}})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("lookup and delete", func(t *testing.T) {
		ts := store.New(newDriver(t))
		ctx := context.Background()
		_, err := ts.UpsertWord(ctx, &store.UpsertWord{Word: "кот", Translations: []string{"cat"}, Progress: 3})
		require.NoError(t, err)

		found, err := ts.Lookup(ctx, []string{"кот", "пёс"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, []string{"cat"}, found["кот"].Translations)
		require.NotNil(t, found["кот"].Progress)
		assert.Equal(t, 3.0, *found["кот"].Progress)

		require.NoError(t, ts.DeleteWord(ctx, &store.DeleteWord{Word: "КОТ"}))
		got, err := ts.GetWord(ctx, "кот")
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, ts.DeleteWord(ctx, &store.DeleteWord{Word: "never-there"}))
	})
}

func names(list []*store.Word) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		out = append(out, w.Word)
	}
	return out
}
