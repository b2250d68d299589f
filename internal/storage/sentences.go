package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/knol"
	"github.com/Cyber-shmuck/Dutch/internal/search"
)

// sentenceBatchSize bounds the rows written per statement during bulk inserts.
const sentenceBatchSize = 50

// SearchSentences returns up to limit sentences matching the normalized
// query q as an exact text, a separate word, a prefix, a suffix or a
// substring, in id order. Matching runs against dutch_lower, which is
// folded with strings.ToLower on insert since SQLite's lower() only folds ASCII.
func (db *DB) SearchSentences(ctx context.Context, q string, limit int) ([]domain.ContextSentence, error) {
	p := search.LikePatterns(q)
	esc := "'" + search.LikeEscape + "'"
	query := `SELECT id, dutch, english, level FROM context_sentences
		WHERE dutch_lower = ?
			OR dutch_lower LIKE ? ESCAPE ` + esc + `
			OR dutch_lower LIKE ? ESCAPE ` + esc + `
			OR dutch_lower LIKE ? ESCAPE ` + esc + `
			OR dutch_lower LIKE ? ESCAPE ` + esc + `
		ORDER BY id
		LIMIT ?`

	sentences := []domain.ContextSentence{}
	err := db.conn.SelectContext(ctx, &sentences, db.rebind(query),
		q, p.Word, p.Prefix, p.Suffix, p.Substring, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search sentences: %w", err)
	}
	return sentences, nil
}

// CountSentences returns the size of the context corpus.
func (db *DB) CountSentences(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM context_sentences"); err != nil {
		return 0, fmt.Errorf("failed to count sentences: %w", err)
	}
	return n, nil
}

// BulkInsertSentences inserts sentences in batches inside one transaction.
// Sentences whose content hash is already stored are skipped. It returns
// the number of new rows.
func (db *DB) BulkInsertSentences(ctx context.Context, sentences []domain.ContextSentence, sourceID int64) (int, error) {
	inserted := 0
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(sentences); start += sentenceBatchSize {
			end := min(start+sentenceBatchSize, len(sentences))
			n, err := db.insertSentenceBatch(ctx, tx, sentences[start:end], sourceID)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (db *DB) insertSentenceBatch(ctx context.Context, tx *sqlx.Tx, batch []domain.ContextSentence, sourceID int64) (int, error) {
	query := "INSERT INTO context_sentences (dutch, dutch_lower, english, level, content_hash, source_id) VALUES "
	args := make([]any, 0, len(batch)*6)
	seen := make(map[string]bool, len(batch))
	rows := 0
	for _, s := range batch {
		hash := knol.SentenceHash(s)
		// A repeated hash inside one statement would conflict with itself.
		if seen[hash] {
			continue
		}
		seen[hash] = true
		if rows > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, s.Dutch, strings.ToLower(s.Dutch), s.English, s.Level, hash, nullSource(sourceID))
		rows++
	}
	if rows == 0 {
		return 0, nil
	}
	query += " ON CONFLICT (content_hash) DO NOTHING"

	res, err := tx.ExecContext(ctx, db.rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sentence batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted sentences: %w", err)
	}
	return int(n), nil
}

// SentenceHashesBySource returns the content hashes of all sentences synced
// from the given source.
func (db *DB) SentenceHashesBySource(ctx context.Context, sourceID int64) ([]string, error) {
	hashes := []string{}
	err := db.conn.SelectContext(ctx, &hashes,
		db.rebind("SELECT content_hash FROM context_sentences WHERE source_id = ? AND content_hash IS NOT NULL"), sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentence hashes for source %d: %w", sourceID, err)
	}
	return hashes, nil
}

// DeleteSentenceByHash removes the sentence with the given content hash.
func (db *DB) DeleteSentenceByHash(ctx context.Context, hash string) error {
	_, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM context_sentences WHERE content_hash = ?"), hash)
	if err != nil {
		return fmt.Errorf("failed to delete sentence: %w", err)
	}
	return nil
}
