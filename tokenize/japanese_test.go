package tokenize

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jaOnce sync.Once
	ja     *Japanese
	jaErr  error
)

func japanese(t *testing.T) *Japanese {
	t.Helper()
	jaOnce.Do(func() { ja, jaErr = NewJapanese() })
	require.NoError(t, jaErr)
	return ja
}

func TestJapaneseSegment(t *testing.T) {
	input := "猫が好きです。"
	got := japanese(t).Segment(input)
	verifyInvariants(t, input, got)

	require.NotEmpty(t, got)
	assert.Equal(t, "猫", got[0].Text)
	assert.True(t, got[0].IsWord)
	assert.Equal(t, "猫", got[0].OriginalWord)
	assert.Equal(t, "ねこ", got[0].Reading)

	last := got[len(got)-1]
	assert.True(t, last.IsWordWithPunctuation)
	assert.True(t, strings.HasSuffix(last.Text, "。"))
}

func TestJapaneseDictionaryForm(t *testing.T) {
	got := japanese(t).Segment("食べた")
	require.NotEmpty(t, got)
	assert.Equal(t, "食べる", got[0].OriginalWord)
}

func TestJapaneseEmptyIsNotNil(t *testing.T) {
	got := japanese(t).Segment("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJapaneseKeepsSpacesAndLatin(t *testing.T) {
	for _, input := range []string{"", "東京  と Osaka!!", "  「こんにちは」  "} {
		verifyInvariants(t, input, japanese(t).Segment(input))
	}
}
