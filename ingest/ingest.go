package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Source says where a passage came from.
type Source string

const (
	SourceChat    Source = "chat"
	SourceReading Source = "reading"
)

var (
	ErrEmptyText     = errors.New("empty text")
	ErrUnknownSource = errors.New("unknown source")
)

// Passage is a chat message or generated reading text queued for annotation.
type Passage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    Source    `json:"source"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ParseSource validates s. The empty string means a reading passage.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case "", SourceReading:
		return SourceReading, nil
	case SourceChat:
		return SourceChat, nil
	}
	return "", errors.Wrapf(ErrUnknownSource, "%q", s)
}

// NormalizeLanguage turns a client-supplied language tag into the form
// segmenters are registered under.
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// NewPassage trims and validates text and stamps it with a fresh ID.
func NewPassage(text, source, language string) (Passage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Passage{}, ErrEmptyText
	}
	src, err := ParseSource(source)
	if err != nil {
		return Passage{}, err
	}
	return Passage{
		ID:        uuid.NewString(),
		Text:      trimmed,
		Source:    src,
		Language:  NormalizeLanguage(language),
		CreatedAt: time.Now().UTC(),
	}, nil
}
