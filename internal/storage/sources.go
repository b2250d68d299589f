package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

const sourceColumns = "id, path, type, last_scanned"

// InsertSource inserts a new source and returns it. It returns ErrDuplicate
// if the path is already registered.
func (db *DB) InsertSource(ctx context.Context, path string, typ domain.SourceType) (domain.Source, error) {
	var s domain.Source
	err := db.conn.QueryRowxContext(ctx,
		db.rebind("INSERT INTO sources (path, type) VALUES (?, ?) RETURNING "+sourceColumns), path, typ,
	).StructScan(&s)
	if isUniqueViolation(err) {
		return domain.Source{}, ErrDuplicate
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	return s, nil
}

// FindSourceByPath retrieves a source by its path.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (domain.Source, error) {
	var s domain.Source
	err := db.conn.GetContext(ctx, &s, db.rebind("SELECT "+sourceColumns+" FROM sources WHERE path = ?"), path)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, ErrNotFound
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return s, nil
}

// GetAllSources retrieves all registered sources.
func (db *DB) GetAllSources(ctx context.Context) ([]domain.Source, error) {
	sources := []domain.Source{}
	if err := db.conn.SelectContext(ctx, &sources, "SELECT "+sourceColumns+" FROM sources ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	return sources, nil
}

// UpdateSourceLastScanned sets the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(ctx context.Context, sourceID int64, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		db.rebind("UPDATE sources SET last_scanned = ? WHERE id = ?"), at.UTC(), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// DeleteSource unregisters a source together with the sentences synced from
// it. Words and other content keep their progress and lose the reference.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM context_sentences WHERE source_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete sentences of source %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, db.rebind("DELETE FROM sources WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("failed to delete source %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted source %d: %w", id, err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
