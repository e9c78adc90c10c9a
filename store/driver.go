package store

import "context"

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	Close() error

	// Word model related methods.
	UpsertWord(ctx context.Context, upsert *UpsertWord) (*Word, error)
	ListWords(ctx context.Context, find *FindWord) ([]*Word, error)
	DeleteWord(ctx context.Context, delete *DeleteWord) error
}
