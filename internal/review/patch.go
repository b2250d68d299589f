package review

import "github.com/Cyber-shmuck/Dutch/internal/domain"

// StreakOp is the operation a patch performs on RepeatKnownCount.
type StreakOp int

const (
	StreakKeep StreakOp = iota
	// StreakIncrement adds one to the review streak and graduates the word
	// once the streak reaches GraduationStreak.
	StreakIncrement
	StreakReset
)

// Patch is a partial update of a word's progress. Counters are expressed as
// operations rather than values so a store can apply them in a single
// statement against the current row.
//
// Explicit sets win over the graduation implied by StreakIncrement.
type Patch struct {
	WrongCountDelta int
	Streak          StreakOp
	IsLearned       *bool
	KnownCount      *int
	InRepeatList    *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.WrongCountDelta == 0 && p.Streak == StreakKeep &&
		p.IsLearned == nil && p.KnownCount == nil && p.InRepeatList == nil
}

// Apply returns cur with the patch applied.
func (p Patch) Apply(cur domain.Progress) domain.Progress {
	next := cur
	next.WrongCount += p.WrongCountDelta

	switch p.Streak {
	case StreakIncrement:
		next.RepeatKnownCount = min(cur.RepeatKnownCount+1, GraduationStreak)
		if next.RepeatKnownCount >= GraduationStreak {
			next.IsLearned = true
			next.InRepeatList = false
		}
	case StreakReset:
		next.RepeatKnownCount = 0
	}

	if p.IsLearned != nil {
		next.IsLearned = *p.IsLearned
	}
	if p.KnownCount != nil {
		next.KnownCount = *p.KnownCount
	}
	if p.InRepeatList != nil {
		next.InRepeatList = *p.InRepeatList
	}
	return next
}
