package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/knol"
)

const ruleColumns = "id, title, explanation, title_en, explanation_en, title_uk, explanation_uk, difficulty"

// RuleUpdate holds the fields of a partial rule update. Nil fields are left unchanged.
type RuleUpdate struct {
	Title         *string
	Explanation   *string
	TitleEn       *string
	ExplanationEn *string
	TitleUk       *string
	ExplanationUk *string
	Difficulty    *domain.Level
}

// ListRules retrieves rules ordered by id. An empty difficulty lists all of them.
func (db *DB) ListRules(ctx context.Context, difficulty domain.Level) ([]domain.Rule, error) {
	rules := []domain.Rule{}
	var err error
	if difficulty == "" {
		err = db.conn.SelectContext(ctx, &rules, "SELECT "+ruleColumns+" FROM rules ORDER BY id")
	} else {
		err = db.conn.SelectContext(ctx, &rules,
			db.rebind("SELECT "+ruleColumns+" FROM rules WHERE difficulty = ? ORDER BY id"), difficulty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	return rules, nil
}

// GetRule retrieves a single rule by id.
func (db *DB) GetRule(ctx context.Context, id int64) (domain.Rule, error) {
	var r domain.Rule
	err := db.conn.GetContext(ctx, &r, db.rebind("SELECT "+ruleColumns+" FROM rules WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rule{}, ErrNotFound
	}
	if err != nil {
		return domain.Rule{}, fmt.Errorf("failed to get rule %d: %w", id, err)
	}
	return r, nil
}

// CreateRule inserts a rule and returns it with its id set.
func (db *DB) CreateRule(ctx context.Context, r domain.Rule) (domain.Rule, error) {
	var created domain.Rule
	q := `INSERT INTO rules (title, explanation, title_en, explanation_en, title_uk, explanation_uk, difficulty)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + ruleColumns
	err := db.conn.QueryRowxContext(ctx, db.rebind(q),
		r.Title, r.Explanation, r.TitleEn, r.ExplanationEn, r.TitleUk, r.ExplanationUk, r.Difficulty,
	).StructScan(&created)
	if err != nil {
		return domain.Rule{}, fmt.Errorf("failed to insert rule: %w", err)
	}
	return created, nil
}

// UpdateRule applies u to the rule and returns the result.
func (db *DB) UpdateRule(ctx context.Context, id int64, u RuleUpdate) (domain.Rule, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Explanation != nil {
		set("explanation", *u.Explanation)
	}
	if u.TitleEn != nil {
		set("title_en", *u.TitleEn)
	}
	if u.ExplanationEn != nil {
		set("explanation_en", *u.ExplanationEn)
	}
	if u.TitleUk != nil {
		set("title_uk", *u.TitleUk)
	}
	if u.ExplanationUk != nil {
		set("explanation_uk", *u.ExplanationUk)
	}
	if u.Difficulty != nil {
		set("difficulty", *u.Difficulty)
	}
	if len(sets) == 0 {
		return db.GetRule(ctx, id)
	}

	q := "UPDATE rules SET " + strings.Join(sets, ", ") + " WHERE id = ? RETURNING " + ruleColumns
	args = append(args, id)
	var r domain.Rule
	err := db.conn.QueryRowxContext(ctx, db.rebind(q), args...).StructScan(&r)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rule{}, ErrNotFound
	}
	if err != nil {
		return domain.Rule{}, fmt.Errorf("failed to update rule %d: %w", id, err)
	}
	return r, nil
}

// DeleteRule removes a rule. It returns ErrNotFound if no row was deleted.
func (db *DB) DeleteRule(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM rules WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete rule %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rule %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertSeedRules inserts rules not yet stored and returns how many were new.
func (db *DB) InsertSeedRules(ctx context.Context, rules []domain.Rule, sourceID int64) (int, error) {
	rows := make([][]any, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []any{
			r.Title, r.Explanation, r.TitleEn, r.ExplanationEn, r.TitleUk, r.ExplanationUk, r.Difficulty,
			knol.RuleHash(r), nullSource(sourceID),
		})
	}
	n, err := db.insertEach(ctx, `INSERT INTO rules (title, explanation, title_en, explanation_en, title_uk, explanation_uk, difficulty, content_hash, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING`, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to insert seed rules: %w", err)
	}
	return n, nil
}

// CountRules returns the number of stored rules.
func (db *DB) CountRules(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM rules"); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}
