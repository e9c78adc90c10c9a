package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"wordtap/store"
)

func (d *DB) UpsertWord(ctx context.Context, upsert *store.UpsertWord) (*store.Word, error) {
	translations, err := json.Marshal(upsert.Translations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode translations")
	}

	stmt := `INSERT INTO word (word, translations, progress, ready_to_repeat)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT(word) DO UPDATE SET
			translations = excluded.translations,
			progress = excluded.progress,
			ready_to_repeat = excluded.ready_to_repeat,
			updated_ts = strftime('%s', 'now')
		RETURNING id, created_ts, updated_ts`

	word := &store.Word{
		Word:          upsert.Word,
		Translations:  upsert.Translations,
		Progress:      upsert.Progress,
		ReadyToRepeat: upsert.ReadyToRepeat,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.Word, string(translations), upsert.Progress, upsert.ReadyToRepeat,
	).Scan(&word.ID, &word.CreatedTs, &word.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert word: %w", err)
	}
	return word, nil
}

func (d *DB) ListWords(ctx context.Context, find *store.FindWord) ([]*store.Word, error) {
	if find.Words != nil && len(find.Words) == 0 {
		return []*store.Word{}, nil
	}
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Word; v != nil {
		where, args = append(where, "word.word = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.Words) > 0 {
		where = append(where, "word.word IN ("+placeholders(len(find.Words))+")")
		for _, w := range find.Words {
			args = append(args, w)
		}
	}
	if v := find.ReadyToRepeat; v != nil {
		where, args = append(where, "word.ready_to_repeat = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, word, translations, progress, ready_to_repeat, created_ts, updated_ts
		FROM word
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY word.word ASC`
	// sqlite only accepts OFFSET after LIMIT; -1 means no limit
	limit := -1
	if find.Limit != nil {
		limit = *find.Limit
	}
	if find.Limit != nil || find.Offset != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	if find.Offset != nil {
		query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Word, 0)
	for rows.Next() {
		var w store.Word
		var translations string
		if err := rows.Scan(
			&w.ID,
			&w.Word,
			&translations,
			&w.Progress,
			&w.ReadyToRepeat,
			&w.CreatedTs,
			&w.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		if translations == "" {
			translations = "[]"
		}
		if err := json.Unmarshal([]byte(translations), &w.Translations); err != nil {
			return nil, errors.Wrapf(err, "failed to decode translations of %q", w.Word)
		}
		list = append(list, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteWord(ctx context.Context, delete *store.DeleteWord) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM word WHERE word = "+placeholder(1), delete.Word); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}
