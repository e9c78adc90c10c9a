// Package tokenize splits chat messages and reading passages into tappable
// segments.
//
// Tokenize is a single left-to-right scan with three character classes:
//
//   - word: ASCII letters and digits, the Russian alphabet (а-я, А-Я, ё, Ё)
//     and the apostrophe, so "don't" stays one word;
//   - whitespace: the ECMAScript \s set; every run collapses to one " ";
//   - punctuation: every other character, one segment per character.
//
// A word absorbs at most one punctuation character that directly follows it
// ("Hello," is a single segment, "wait!!" is "wait!" then "!"). Apart from
// whitespace collapsing, concatenating the segment texts reproduces the input.
package tokenize

import (
	"strings"
	"unicode/utf8"

	"wordtap/model"
)

// Token is a single segment produced by a Segmenter.
type Token = model.Segment

// Tokenize segments text. It never fails: invalid UTF-8 bytes are treated as
// punctuation and copied through unchanged.
func Tokenize(text string) []Token {
	e := newEmitter(len(text)/3 + 1)
	e.scan(text, 0, len(text))
	return e.segments
}

// emitter accumulates segments and applies the one-shot punctuation merge.
type emitter struct {
	segments []Token
	// index of the word that may still take one punctuation run
	last int
}

func newEmitter(capacity int) *emitter {
	return &emitter{segments: make([]Token, 0, capacity), last: -1}
}

func (e *emitter) word(text, key, reading string, start, end int) {
	e.segments = append(e.segments, Token{
		Text:         text,
		IsWord:       true,
		OriginalWord: key,
		Start:        start,
		End:          end,
		Reading:      reading,
	})
	e.last = len(e.segments) - 1
}

func (e *emitter) space(start, end int) {
	if start == end {
		return
	}
	if n := len(e.segments); n > 0 && !e.segments[n-1].IsWord && e.segments[n-1].Text == " " && e.segments[n-1].End == start {
		// adjacent runs from different scanners still collapse to one space
		e.segments[n-1].End = end
		return
	}
	e.segments = append(e.segments, Token{Text: " ", Start: start, End: end})
	e.last = -1
}

func (e *emitter) punct(text string, start, end int) {
	if e.last >= 0 && !e.segments[e.last].IsWordWithPunctuation {
		w := &e.segments[e.last]
		w.Text += text
		w.End = end
		w.IsWordWithPunctuation = true
	} else {
		e.segments = append(e.segments, Token{Text: text, Start: start, End: end})
	}
	e.last = -1
}

// scan segments text[from:to]; offsets stay relative to text.
func (e *emitter) scan(text string, from, to int) {
	s := text[:to]
	for i := from; i < to; {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case isWordRune(r):
			j := scanRun(s, i, isWordRune)
			e.word(s[i:j], strings.ToLower(s[i:j]), "", i, j)
			i = j
		case isSpace(r):
			j := scanRun(s, i, isSpace)
			e.space(i, j)
			i = j
		default:
			e.punct(s[i:i+size], i, i+size)
			i += size
		}
	}
}

// Join concatenates the segment texts.
func Join(segments []Token) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// CollapseSpace replaces every whitespace run in s with a single space.
// Join(Tokenize(s)) == CollapseSpace(s) holds for every s.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isSpace(r) {
			b.WriteByte(' ')
			i = scanRun(s, i, isSpace)
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// Words returns the lookup keys of all word segments, in order.
func Words(segments []Token) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.IsWord && s.OriginalWord != "" {
			out = append(out, s.OriginalWord)
		}
	}
	return out
}

func scanRun(s string, i int, in func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !in(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 'а' && r <= 'я', r >= 'А' && r <= 'Я':
		return true
	case r == 'ё', r == 'Ё', r == '\'':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
