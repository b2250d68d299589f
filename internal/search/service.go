package search

import (
	"context"
	"log/slog"

	"github.com/Cyber-shmuck/Dutch/internal/cache"
	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Store runs the match against the sentence corpus. q is already normalized.
type Store interface {
	SearchSentences(ctx context.Context, q string, limit int) ([]domain.ContextSentence, error)
}

// Service answers context searches, memoising results per normalized query.
type Service struct {
	store  Store
	cache  cache.Cache[[]domain.ContextSentence]
	logger *slog.Logger
}

// NewService returns a Service backed by store and c.
func NewService(store Store, c cache.Cache[[]domain.ContextSentence], logger *slog.Logger) *Service {
	return &Service{store: store, cache: c, logger: logger}
}

// Search returns up to MaxResults sentences matching query. It never fails:
// an empty query or a store error yields an empty result.
func (s *Service) Search(ctx context.Context, query string) []domain.ContextSentence {
	q := Normalize(query)
	if q == "" {
		return []domain.ContextSentence{}
	}
	if hit, ok := s.cache.Get(ctx, q); ok {
		return hit
	}

	results, err := s.store.SearchSentences(ctx, q, MaxResults)
	if err != nil {
		s.logger.Warn("context search failed", "query", q, "error", err)
		return []domain.ContextSentence{}
	}
	if results == nil {
		results = []domain.ContextSentence{}
	}
	s.cache.Set(ctx, q, results)
	return results
}

// Invalidate drops memoised results after the corpus changed.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Clear(ctx)
}
