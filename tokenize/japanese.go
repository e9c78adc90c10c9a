package tokenize

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/pkg/errors"

	"wordtap/kana"
	"wordtap/model"
)

// posSymbol is the IPA part-of-speech for punctuation and symbols.
const posSymbol = "記号"

// Japanese segments Japanese text by morpheme using kagome and the IPA
// dictionary. Words are keyed by their dictionary form so that 食べた and
// 食べる share a vocabulary entry.
type Japanese struct {
	kg *tokenizer.Tokenizer
}

// NewJapanese loads the IPA dictionary; this takes a noticeable amount of
// memory, so build one and share it.
func NewJapanese() (*Japanese, error) {
	kg, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, errors.Wrap(err, "init kagome tokenizer")
	}
	return &Japanese{kg: kg}, nil
}

func (j *Japanese) Segment(text string) []model.Segment {
	e := newEmitter(len(text)/3 + 1)
	cursor := 0
	for _, kt := range j.kg.Tokenize(text) {
		if kt.Surface == "" {
			continue
		}
		idx := strings.Index(text[cursor:], kt.Surface)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(kt.Surface)
		// anything kagome skipped goes through the default rules
		e.scan(text, cursor, start)
		cursor = end

		switch {
		case isAllSpace(kt.Surface):
			e.space(start, end)
		case isSymbol(kt.POS()):
			e.punct(kt.Surface, start, end)
		default:
			e.word(kt.Surface, lemmaOf(kt), readingOf(kt), start, end)
		}
	}
	e.scan(text, cursor, len(text))
	return e.segments
}

func isSymbol(pos []string) bool {
	return len(pos) > 0 && pos[0] == posSymbol
}

func isAllSpace(s string) bool {
	for _, r := range s {
		if !isSpace(r) {
			return false
		}
	}
	return s != ""
}

func lemmaOf(kt tokenizer.Token) string {
	if base, ok := kt.BaseForm(); ok && base != "" && base != "*" {
		return strings.ToLower(base)
	}
	return strings.ToLower(kt.Surface)
}

func readingOf(kt tokenizer.Token) string {
	if !kana.HasKanji(kt.Surface) {
		return ""
	}
	reading, ok := kt.Reading()
	if !ok || reading == "*" {
		return ""
	}
	return kana.ToHiragana(reading)
}
