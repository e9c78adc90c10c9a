package store

import "wordtap/model"

// Word is a vocabulary record.
type Word struct {
	ID            int32
	Word          string
	Translations  []string
	Progress      float64
	ReadyToRepeat bool
	CreatedTs     int64
	UpdatedTs     int64
}

// FindWord specifies the conditions for finding words.
type FindWord struct {
	Word          *string
	Words         []string
	ReadyToRepeat *bool

	// Pagination
	Limit  *int
	Offset *int
}

// UpsertWord replaces the record stored under Word, creating it if needed.
type UpsertWord struct {
	Word          string
	Translations  []string
	Progress      float64
	ReadyToRepeat bool
}

type DeleteWord struct {
	Word string
}

// ToDictionaryWord converts w into the record the annotator works with.
func (w *Word) ToDictionaryWord() model.DictionaryWord {
	p := w.Progress
	return model.DictionaryWord{
		Word:            w.Word,
		Progress:        &p,
		Translations:    w.Translations,
		IsReadyToRepeat: w.ReadyToRepeat,
	}
}
