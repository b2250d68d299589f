// Package queue builds study queues from the word set and tracks the
// position within one.
package queue

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/review"
)

// Filter selects the words of one study mode.
type Filter struct {
	Mode review.Mode
	// Level applies to ModeNew and ModeLearned.
	Level domain.Level
	// SubMode applies to ModeReview.
	SubMode review.SubMode
}

// Match reports whether w belongs to the queue described by f.
func (f Filter) Match(w domain.Word) bool {
	switch f.Mode {
	case review.ModeNew:
		return !w.IsUserAdded && !w.IsLearned && w.Level == f.Level
	case review.ModeMy:
		return w.IsUserAdded && !w.IsLearned && w.KnownCount == 0
	case review.ModeLearned:
		return w.IsLearned && w.Level == f.Level
	case review.ModeReview:
		if f.SubMode == review.SubModeList {
			return !w.IsLearned && w.InRepeatList
		}
		return w.Weak()
	}
	return false
}

// Build returns the words matching f ordered by their Dutch text.
// The order is case-insensitive and follows Dutch collation; words that
// compare equal keep their order in words. words is not modified.
func Build(words []domain.Word, f Filter) []domain.Word {
	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		if f.Match(w) {
			out = append(out, w)
		}
	}

	// A Collator is not safe for concurrent use, so each call gets its own.
	c := collate.New(language.Dutch, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Dutch, out[j].Dutch) < 0
	})
	return out
}
