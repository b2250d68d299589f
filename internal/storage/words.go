package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/knol"
	"github.com/Cyber-shmuck/Dutch/internal/review"
)

const wordColumns = `id, dutch, translation, translation_ru, translation_en, translation_uk, level,
	is_user_added, is_learned, known_count, wrong_count, repeat_known_count, in_repeat_list`

// ListWords retrieves all words ordered by id.
func (db *DB) ListWords(ctx context.Context) ([]domain.Word, error) {
	words := []domain.Word{}
	if err := db.conn.SelectContext(ctx, &words, "SELECT "+wordColumns+" FROM words ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	return words, nil
}

// GetWord retrieves a single word by id.
func (db *DB) GetWord(ctx context.Context, id int64) (domain.Word, error) {
	var w domain.Word
	err := db.conn.GetContext(ctx, &w, db.rebind("SELECT "+wordColumns+" FROM words WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Word{}, ErrNotFound
	}
	if err != nil {
		return domain.Word{}, fmt.Errorf("failed to get word %d: %w", id, err)
	}
	return w, nil
}

// CreateWord inserts a word with zeroed progress and returns the stored record.
// A missing level defaults to Custom.
func (db *DB) CreateWord(ctx context.Context, nw domain.NewWord) (domain.Word, error) {
	nw = withDefaults(nw)
	var w domain.Word
	q := `INSERT INTO words (dutch, translation, translation_ru, translation_en, translation_uk, level, is_user_added, in_repeat_list)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + wordColumns
	err := db.conn.QueryRowxContext(ctx, db.rebind(q),
		nw.Dutch, nw.Translation, nw.TranslationRu, nw.TranslationEn, nw.TranslationUk,
		nw.Level, nw.IsUserAdded, nw.InRepeatList,
	).StructScan(&w)
	if err != nil {
		return domain.Word{}, fmt.Errorf("failed to insert word: %w", err)
	}
	return w, nil
}

// InsertSeedWords inserts words identified by their content hash, skipping
// any that are already stored. It returns the number of new rows.
func (db *DB) InsertSeedWords(ctx context.Context, words []domain.NewWord, sourceID int64) (int, error) {
	rows := make([][]any, 0, len(words))
	for _, nw := range words {
		nw = withDefaults(nw)
		rows = append(rows, []any{
			nw.Dutch, nw.Translation, nw.TranslationRu, nw.TranslationEn, nw.TranslationUk,
			nw.Level, nw.IsUserAdded, knol.WordHash(nw), nullSource(sourceID),
		})
	}
	n, err := db.insertEach(ctx, `INSERT INTO words (dutch, translation, translation_ru, translation_en, translation_uk, level, is_user_added, content_hash, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING`, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed words: %w", err)
	}
	return n, nil
}

// ApplyWordPatch applies p to the word in a single UPDATE, so concurrent
// answers on the same word never lose an increment.
func (db *DB) ApplyWordPatch(ctx context.Context, id int64, p review.Patch) (domain.Word, error) {
	if p.Empty() {
		return db.GetWord(ctx, id)
	}

	sets, args := patchAssignments(p)
	q := "UPDATE words SET " + strings.Join(sets, ", ") + " WHERE id = ? RETURNING " + wordColumns
	args = append(args, id)

	var w domain.Word
	err := db.conn.QueryRowxContext(ctx, db.rebind(q), args...).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Word{}, ErrNotFound
	}
	if err != nil {
		return domain.Word{}, fmt.Errorf("failed to update word %d: %w", id, err)
	}
	return w, nil
}

// patchAssignments translates a patch into SET clauses. Every right-hand
// side reads the row as it was before the update.
func patchAssignments(p review.Patch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if p.WrongCountDelta != 0 {
		sets = append(sets, "wrong_count = wrong_count + ?")
		args = append(args, p.WrongCountDelta)
	}

	switch p.Streak {
	case review.StreakIncrement:
		g := review.GraduationStreak
		sets = append(sets, fmt.Sprintf(
			"repeat_known_count = CASE WHEN repeat_known_count + 1 > %d THEN %d ELSE repeat_known_count + 1 END", g, g))
		if p.IsLearned == nil {
			sets = append(sets, fmt.Sprintf(
				"is_learned = CASE WHEN repeat_known_count + 1 >= %d THEN TRUE ELSE is_learned END", g))
		}
		if p.InRepeatList == nil {
			sets = append(sets, fmt.Sprintf(
				"in_repeat_list = CASE WHEN repeat_known_count + 1 >= %d THEN FALSE ELSE in_repeat_list END", g))
		}
	case review.StreakReset:
		sets = append(sets, "repeat_known_count = 0")
	}

	if p.IsLearned != nil {
		sets = append(sets, "is_learned = ?")
		args = append(args, *p.IsLearned)
	}
	if p.KnownCount != nil {
		sets = append(sets, "known_count = ?")
		args = append(args, *p.KnownCount)
	}
	if p.InRepeatList != nil {
		sets = append(sets, "in_repeat_list = ?")
		args = append(args, *p.InRepeatList)
	}
	return sets, args
}

// DeleteWord removes a word. It returns ErrNotFound if no row was deleted.
func (db *DB) DeleteWord(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM words WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete word %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted word %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountWords returns the number of stored words.
func (db *DB) CountWords(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}

func withDefaults(nw domain.NewWord) domain.NewWord {
	nw.Dutch = strings.TrimSpace(nw.Dutch)
	if nw.Level == "" {
		nw.Level = domain.LevelCustom
	}
	if nw.Translation == "" {
		for _, t := range []string{nw.TranslationRu, nw.TranslationEn, nw.TranslationUk} {
			if t != "" {
				nw.Translation = t
				break
			}
		}
	}
	return nw
}
