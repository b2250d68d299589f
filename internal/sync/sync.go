// Package sync reconciles registered content sources with the store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/gitsource"
	"github.com/Cyber-shmuck/Dutch/internal/importer"
	"github.com/Cyber-shmuck/Dutch/internal/knol"
	"github.com/Cyber-shmuck/Dutch/internal/parser"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

// ErrSyncInProgress is returned when a sync is requested while another one runs.
var ErrSyncInProgress = errors.New("sync already in progress")

// ErrInvalidSource is returned by AddSource for paths that cannot be synced.
var ErrInvalidSource = errors.New("invalid source")

// Report summarises one sync run.
type Report struct {
	Sources          int      `json:"sources"`
	WordsAdded       int      `json:"wordsAdded"`
	SentencesAdded   int      `json:"sentencesAdded"`
	RulesAdded       int      `json:"rulesAdded"`
	VerbsAdded       int      `json:"verbsAdded"`
	SentencesDeleted int      `json:"sentencesDeleted"`
	Errors           []string `json:"errors"`
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Syncer pulls decks and word lists from all sources into the store.
type Syncer struct {
	db       *storage.DB
	reposDir string
	logger   *slog.Logger
	// onChange runs after a sync that changed the sentence corpus.
	onChange func(ctx context.Context)
	running  gosync.Mutex
	now      func() time.Time
}

// New returns a Syncer. Git sources are checked out under reposDir.
// onChange may be nil.
func New(db *storage.DB, reposDir string, onChange func(ctx context.Context), logger *slog.Logger) *Syncer {
	if onChange == nil {
		onChange = func(context.Context) {}
	}
	return &Syncer{db: db, reposDir: reposDir, logger: logger, onChange: onChange, now: time.Now}
}

// AddSource registers a local directory or a git URL.
func (s *Syncer) AddSource(ctx context.Context, path string) (domain.Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Source{}, fmt.Errorf("%w: path is empty", ErrInvalidSource)
	}
	if gitsource.IsRemote(path) {
		if _, err := gitsource.LocalPath(s.reposDir, path); err != nil {
			return domain.Source{}, fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return s.db.InsertSource(ctx, path, domain.SourceGit)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Source{}, fmt.Errorf("%w: failed to resolve %s: %v", ErrInvalidSource, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return domain.Source{}, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if !info.IsDir() {
		return domain.Source{}, fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, abs)
	}
	return s.db.InsertSource(ctx, abs, domain.SourceLocal)
}

// RunSync iterates over all sources and reconciles them. Failures of single
// sources are recorded in the report; only failing to list the sources is
// returned as an error.
func (s *Syncer) RunSync(ctx context.Context) (Report, error) {
	if !s.running.TryLock() {
		return Report{}, ErrSyncInProgress
	}
	defer s.running.Unlock()

	report := Report{Errors: []string{}}
	s.logger.Info("Starting sync process for all sources...")
	sources, err := s.db.GetAllSources(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		s.logger.Info("No sources configured. Add one with --add-source <path/or/url.git>")
		return report, nil
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.logger.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)
		report.Sources++

		dir := source.Path
		if source.Type == domain.SourceGit {
			localRepoPath, err := gitsource.LocalPath(s.reposDir, source.Path)
			if err != nil {
				s.logger.Error("Error determining local path for git repo", "url", source.Path, "error", err)
				report.errorf("%s: %v", source.Path, err)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(localRepoPath), 0o755); err != nil {
				s.logger.Error("Failed to create repos directory", "error", err)
				report.errorf("%s: %v", source.Path, err)
				continue
			}
			if err := gitsource.Sync(ctx, s.logger, source.Path, localRepoPath); err != nil {
				s.logger.Error("Error syncing git repo", "url", source.Path, "error", err)
				report.errorf("%s: %v", source.Path, err)
				continue
			}
			dir = localRepoPath
		}

		s.reconcile(ctx, source, dir, &report)
	}

	if report.SentencesAdded > 0 || report.SentencesDeleted > 0 {
		s.onChange(ctx)
	}
	s.logger.Info("Sync process complete.",
		"sources", report.Sources,
		"words_added", report.WordsAdded,
		"sentences_added", report.SentencesAdded,
		"sentences_deleted", report.SentencesDeleted,
		"errors", len(report.Errors),
	)
	return report, nil
}

// reconcile loads every deck and word list under dir, inserts new entries
// and deletes sentences the source no longer contains. Words are never
// deleted here since they carry study progress.
func (s *Syncer) reconcile(ctx context.Context, source domain.Source, dir string, report *Report) {
	var deck parser.Deck
	var fileErrors int

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		switch {
		case strings.HasSuffix(name, ".md"):
			fileDeck, parseErr := parser.ParseFile(path)
			if parseErr != nil {
				fileErrors++
				report.errorf("parsing %s: %v", path, parseErr)
				return nil
			}
			for _, p := range fileDeck.Skipped {
				s.logger.Warn("Skipped deck entry", "file", path, "problem", p.String())
			}
			deck.Merge(fileDeck)
		case importer.Supported(name):
			result, importErr := importer.ImportWords(importer.ImportConfig{FilePath: path})
			if importErr != nil {
				fileErrors++
				report.errorf("importing %s: %v", path, importErr)
				return nil
			}
			for _, e := range result.Errors {
				s.logger.Warn("Skipped word list row", "file", path, "problem", e)
			}
			deck.Words = append(deck.Words, result.Words...)
		}
		return nil
	})
	if walkErr != nil {
		s.logger.Error("Error walking directory", "path", dir, "error", walkErr)
		report.errorf("walking %s: %v", dir, walkErr)
		return
	}

	insert := func(kind string, fn func() (int, error), total *int) {
		n, err := fn()
		if err != nil {
			s.logger.Error("Failed to insert entries", "kind", kind, "source_id", source.ID, "error", err)
			report.errorf("inserting %s from %s: %v", kind, source.Path, err)
			return
		}
		*total += n
	}
	insert("words", func() (int, error) { return s.db.InsertSeedWords(ctx, deck.Words, source.ID) }, &report.WordsAdded)
	insert("sentences", func() (int, error) { return s.db.BulkInsertSentences(ctx, deck.Sentences, source.ID) }, &report.SentencesAdded)
	insert("rules", func() (int, error) { return s.db.InsertSeedRules(ctx, deck.Rules, source.ID) }, &report.RulesAdded)
	insert("verbs", func() (int, error) { return s.db.InsertSeedVerbs(ctx, deck.Verbs, source.ID) }, &report.VerbsAdded)

	if fileErrors > 0 {
		// An unreadable file would make its sentences look orphaned.
		s.logger.Warn("Skipping orphan removal after file errors", "source_id", source.ID, "errors", fileErrors)
		s.finish(ctx, source, dir, deck, 0, fileErrors)
		return
	}

	foundSentenceHashes := make(map[string]bool, len(deck.Sentences))
	for _, sentence := range deck.Sentences {
		foundSentenceHashes[knol.SentenceHash(sentence)] = true
	}

	dbHashes, err := s.db.SentenceHashesBySource(ctx, source.ID)
	if err != nil {
		s.logger.Error("Error getting sentences for source", "source_id", source.ID, "error", err)
		report.errorf("listing sentences of %s: %v", source.Path, err)
		return
	}

	var orphaned int
	for _, hash := range dbHashes {
		if foundSentenceHashes[hash] {
			continue
		}
		s.logger.Info("Orphaned sentence, deleting", "hash", hash)
		if err := s.db.DeleteSentenceByHash(ctx, hash); err != nil {
			s.logger.Warn("Failed to delete orphaned sentence", "hash", hash, "error", err)
			continue
		}
		orphaned++
	}
	report.SentencesDeleted += orphaned

	s.finish(ctx, source, dir, deck, orphaned, fileErrors)
}

func (s *Syncer) finish(ctx context.Context, source domain.Source, dir string, deck parser.Deck, orphaned, fileErrors int) {
	if err := s.db.UpdateSourceLastScanned(ctx, source.ID, s.now()); err != nil {
		s.logger.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}

	s.logger.Info("reconciliation complete",
		"path", dir,
		"parsed_entries", deck.Len(),
		"skipped_entries", len(deck.Skipped),
		"orphaned_deleted", orphaned,
		"errors", fileErrors,
	)
}
