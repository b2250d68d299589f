// Package seed holds the default deck loaded into a fresh database.
package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/Cyber-shmuck/Dutch/internal/parser"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

//go:embed data/*.md
var deckFiles embed.FS

// Result counts the entries inserted by Load.
type Result struct {
	Words     int
	Sentences int
	Rules     int
	Verbs     int
}

// Deck parses the embedded default deck.
func Deck() (parser.Deck, error) {
	paths, err := fs.Glob(deckFiles, "data/*.md")
	if err != nil {
		return parser.Deck{}, err
	}

	var deck parser.Deck
	for _, path := range paths {
		f, err := deckFiles.Open(path)
		if err != nil {
			return parser.Deck{}, fmt.Errorf("failed to open %s: %w", path, err)
		}
		fileDeck, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return parser.Deck{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		deck.Merge(fileDeck)
	}
	return deck, nil
}

// Load inserts the default deck. Each kind of content is only seeded while
// its table is empty, so entries a user deleted do not come back.
func Load(ctx context.Context, db *storage.DB, logger *slog.Logger) (Result, error) {
	deck, err := Deck()
	if err != nil {
		return Result{}, err
	}
	for _, p := range deck.Skipped {
		logger.Warn("Skipped default deck entry", "problem", p.String())
	}

	var res Result
	steps := []struct {
		kind   string
		count  func(context.Context) (int, error)
		insert func() (int, error)
		added  *int
	}{
		{"words", db.CountWords, func() (int, error) { return db.InsertSeedWords(ctx, deck.Words, 0) }, &res.Words},
		{"rules", db.CountRules, func() (int, error) { return db.InsertSeedRules(ctx, deck.Rules, 0) }, &res.Rules},
		{"verbs", db.CountVerbs, func() (int, error) { return db.InsertSeedVerbs(ctx, deck.Verbs, 0) }, &res.Verbs},
		{"sentences", db.CountSentences, func() (int, error) { return db.BulkInsertSentences(ctx, deck.Sentences, 0) }, &res.Sentences},
	}
	for _, step := range steps {
		existing, err := step.count(ctx)
		if err != nil {
			return res, err
		}
		if existing > 0 {
			continue
		}
		n, err := step.insert()
		if err != nil {
			return res, fmt.Errorf("failed to seed %s: %w", step.kind, err)
		}
		*step.added = n
		logger.Info("Seeded default content", "kind", step.kind, "count", n)
	}
	return res, nil
}
