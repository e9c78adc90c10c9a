package model

import "wordtap/progress"

// Segment is one tappable unit of a text: a word (possibly carrying one
// trailing punctuation mark), a punctuation mark, or a collapsed whitespace run.
type Segment struct {
	Text                  string `json:"text"`
	IsWord                bool   `json:"is_word"`
	IsWordWithPunctuation bool   `json:"is_word_with_punctuation,omitempty"`
	OriginalWord          string `json:"original_word,omitempty"`
	Start                 int    `json:"start"`
	End                   int    `json:"end"`
	Reading               string `json:"reading,omitempty"`
}

// DictionaryWord is a vocabulary record owned by the learner's dictionary.
type DictionaryWord struct {
	Word            string   `json:"word" yaml:"word"`
	Progress        *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
	Translations    []string `json:"translations,omitempty" yaml:"translations,omitempty"`
	IsReadyToRepeat bool     `json:"is_ready_to_repeat" yaml:"is_ready_to_repeat"`
}

// Bucket returns the learning stage of the word.
func (w DictionaryWord) Bucket() progress.Bucket {
	return progress.ClassifyValue(w.Progress)
}

// LexEntry pairs a segment with its dictionary record, if any.
type LexEntry struct {
	Segment Segment         `json:"segment"`
	Word    *DictionaryWord `json:"word,omitempty"`
	Found   bool            `json:"found"`
	Bucket  progress.Bucket `json:"bucket,omitempty"`
}
