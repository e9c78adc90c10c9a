package tokenize

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyInvariants checks what must hold for every tokenization:
//   - the segment texts join back to the input with whitespace collapsed;
//   - every segment's offsets cover exactly the source text it was built from;
//   - only word segments carry a lookup key.
func verifyInvariants(t *testing.T, input string, segments []Token) {
	t.Helper()
	require.Equal(t, CollapseSpace(input), Join(segments), "reconstruction of %q", input)

	prevEnd := 0
	for i, s := range segments {
		require.Equal(t, prevEnd, s.Start, "segment %d of %q does not start where the previous ended", i, input)
		require.Equal(t, CollapseSpace(input[s.Start:s.End]), s.Text, "segment %d offsets of %q", i, input)
		if s.IsWord {
			require.NotEmpty(t, s.OriginalWord, "word segment %d of %q has no key", i, input)
		} else {
			require.Empty(t, s.OriginalWord, "non-word segment %d of %q has a key", i, input)
			require.False(t, s.IsWordWithPunctuation)
		}
		prevEnd = s.End
	}
	require.Equal(t, len(input), prevEnd, "segments of %q do not cover the input", input)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty", "", []Token{}},
		{"two words", "hello world", []Token{
			{Text: "hello", IsWord: true, OriginalWord: "hello", Start: 0, End: 5},
			{Text: " ", Start: 5, End: 6},
			{Text: "world", IsWord: true, OriginalWord: "world", Start: 6, End: 11},
		}},
		{"punctuation merges into the word before it", "Hello, world!", []Token{
			{Text: "Hello,", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "hello", Start: 0, End: 6},
			{Text: " ", Start: 6, End: 7},
			{Text: "world!", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "world", Start: 7, End: 13},
		}},
		{"merge happens only once", "wait!!", []Token{
			{Text: "wait!", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "wait", Start: 0, End: 5},
			{Text: "!", Start: 5, End: 6},
		}},
		{"ellipsis", "Hello...", []Token{
			{Text: "Hello.", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "hello", Start: 0, End: 6},
			{Text: ".", Start: 6, End: 7},
			{Text: ".", Start: 7, End: 8},
		}},
		{"leading punctuation stands alone", "¡Hola", []Token{
			{Text: "¡", Start: 0, End: 2},
			{Text: "Hola", IsWord: true, OriginalWord: "hola", Start: 2, End: 6},
		}},
		{"apostrophe is part of the word", "don't", []Token{
			{Text: "don't", IsWord: true, OriginalWord: "don't", Start: 0, End: 5},
		}},
		{"upper case key", "HELLO", []Token{
			{Text: "HELLO", IsWord: true, OriginalWord: "hello", Start: 0, End: 5},
		}},
		{"cyrillic with yo", "Ёлка, ёж", []Token{
			{Text: "Ёлка,", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "ёлка", Start: 0, End: 9},
			{Text: " ", Start: 9, End: 10},
			{Text: "ёж", IsWord: true, OriginalWord: "ёж", Start: 10, End: 14},
		}},
		{"digits are words", "in 2024.", []Token{
			{Text: "in", IsWord: true, OriginalWord: "in", Start: 0, End: 2},
			{Text: " ", Start: 2, End: 3},
			{Text: "2024.", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "2024", Start: 3, End: 8},
		}},
		{"whitespace runs collapse", "a \t\n b", []Token{
			{Text: "a", IsWord: true, OriginalWord: "a", Start: 0, End: 1},
			{Text: " ", Start: 1, End: 5},
			{Text: "b", IsWord: true, OriginalWord: "b", Start: 5, End: 6},
		}},
		{"pure whitespace", "   ", []Token{
			{Text: " ", Start: 0, End: 3},
		}},
		{"punctuation after a space does not merge", "a ,", []Token{
			{Text: "a", IsWord: true, OriginalWord: "a", Start: 0, End: 1},
			{Text: " ", Start: 1, End: 2},
			{Text: ",", Start: 2, End: 3},
		}},
		{"accented letters are not in the word alphabet", "café", []Token{
			{Text: "café", IsWord: true, IsWordWithPunctuation: true, OriginalWord: "caf", Start: 0, End: 5},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			verifyInvariants(t, tt.input, got)
		})
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	input := "ok\xff\xfe go"
	got := Tokenize(input)
	verifyInvariants(t, input, got)
	assert.Equal(t, "ok\xff", got[0].Text)
	assert.Equal(t, "\xfe", got[1].Text)
}

func TestTokenizeRandomInputs(t *testing.T) {
	alphabet := []string{
		"a", "Z", "7", "'", "я", "Ж", "ё", "Ё", " ", "\t", "\n", " ", "　",
		",", ".", "!", "?", "¡", "—", "é", "猫", "🙂", "\xff",
	}
	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 500; n++ {
		var b strings.Builder
		for k := rng.Intn(24); k > 0; k-- {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		input := b.String()
		first := Tokenize(input)
		verifyInvariants(t, input, first)
		assert.Equal(t, first, Tokenize(input), "tokenizing %q twice differs", input)
	}
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, " a b ", CollapseSpace("\n\na  \t b "))
	assert.Equal(t, "", CollapseSpace(""))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, Words(Tokenize("Hello, world!")))
	assert.Empty(t, Words(Tokenize("?! ...")))
}
