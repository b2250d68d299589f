package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/knol"
)

const verbColumns = "id, infinitive, past_singular, past_participle, translation, example, is_learned"

// ListVerbs retrieves all irregular verbs ordered by id.
func (db *DB) ListVerbs(ctx context.Context) ([]domain.Verb, error) {
	verbs := []domain.Verb{}
	if err := db.conn.SelectContext(ctx, &verbs, "SELECT "+verbColumns+" FROM verbs ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to query verbs: %w", err)
	}
	return verbs, nil
}

// SetVerbLearned marks a verb as learned or not and returns it.
func (db *DB) SetVerbLearned(ctx context.Context, id int64, learned bool) (domain.Verb, error) {
	var v domain.Verb
	err := db.conn.QueryRowxContext(ctx,
		db.rebind("UPDATE verbs SET is_learned = ? WHERE id = ? RETURNING "+verbColumns), learned, id,
	).StructScan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Verb{}, ErrNotFound
	}
	if err != nil {
		return domain.Verb{}, fmt.Errorf("failed to update verb %d: %w", id, err)
	}
	return v, nil
}

// InsertSeedVerbs inserts verbs not yet stored and returns how many were new.
func (db *DB) InsertSeedVerbs(ctx context.Context, verbs []domain.Verb, sourceID int64) (int, error) {
	rows := make([][]any, 0, len(verbs))
	for _, v := range verbs {
		rows = append(rows, []any{
			v.Infinitive, v.PastSingular, v.PastParticiple, v.Translation, v.Example,
			knol.VerbHash(v), nullSource(sourceID),
		})
	}
	n, err := db.insertEach(ctx, `INSERT INTO verbs (infinitive, past_singular, past_participle, translation, example, content_hash, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING`, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed verbs: %w", err)
	}
	return n, nil
}

// CountVerbs returns the number of stored verbs.
func (db *DB) CountVerbs(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM verbs"); err != nil {
		return 0, fmt.Errorf("failed to count verbs: %w", err)
	}
	return n, nil
}
