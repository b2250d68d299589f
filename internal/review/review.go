package review

import (
	"errors"
	"fmt"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Mode is the study mode a word is presented in.
type Mode string

const (
	ModeNew     Mode = "new"
	ModeMy      Mode = "my"
	ModeLearned Mode = "learned"
	ModeReview  Mode = "review"
)

// SubMode selects the review queue. Only meaningful with ModeReview.
type SubMode string

const (
	SubModeWeak SubMode = "weak"
	SubModeList SubMode = "list"
)

// Answer is the user's response to a card.
type Answer string

const (
	Know     Answer = "know"
	DontKnow Answer = "dont-know"
)

// GraduationStreak is the number of consecutive correct review answers
// after which a word counts as learned.
const GraduationStreak = 5

// ErrInvalidTransition is returned for transitions the state machine does not define.
var ErrInvalidTransition = errors.New("invalid transition")

// ParseMode converts a request value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNew, ModeMy, ModeLearned, ModeReview:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// ParseSubMode converts a request value into a SubMode. Empty means weak.
func ParseSubMode(s string) (SubMode, error) {
	switch sm := SubMode(s); sm {
	case "":
		return SubModeWeak, nil
	case SubModeWeak, SubModeList:
		return sm, nil
	}
	return "", fmt.Errorf("unknown sub mode %q", s)
}

// Transition is one of RecordAnswer, MarkLearned, UndoLearned or SetRepeatList.
type Transition interface {
	patch() (Patch, error)
	String() string
}

// RecordAnswer is a know/don't-know answer given while studying in Mode.
type RecordAnswer struct {
	Mode    Mode
	SubMode SubMode
	Answer  Answer
}

// MarkLearned graduates a word directly.
type MarkLearned struct{}

// UndoLearned puts a learned word back into study. The mistake history is kept.
type UndoLearned struct{}

// SetRepeatList adds a word to, or removes it from, the manual repeat list.
type SetRepeatList struct {
	Listed bool
}

func (t RecordAnswer) String() string {
	if t.Mode == ModeReview {
		return fmt.Sprintf("answer(%s/%s, %s)", t.Mode, t.SubMode, t.Answer)
	}
	return fmt.Sprintf("answer(%s, %s)", t.Mode, t.Answer)
}

func (MarkLearned) String() string     { return "mark-learned" }
func (UndoLearned) String() string     { return "undo-learned" }
func (t SetRepeatList) String() string { return fmt.Sprintf("repeat-list(%t)", t.Listed) }

func (t RecordAnswer) patch() (Patch, error) {
	if t.Answer != Know && t.Answer != DontKnow {
		return Patch{}, fmt.Errorf("%w: unknown answer %q", ErrInvalidTransition, t.Answer)
	}
	switch t.Mode {
	case ModeNew, ModeMy:
		if t.Answer == Know {
			return MarkLearned{}.patch()
		}
		return Patch{WrongCountDelta: 1}, nil
	case ModeReview:
		if t.SubMode != "" && t.SubMode != SubModeWeak && t.SubMode != SubModeList {
			return Patch{}, fmt.Errorf("%w: unknown sub mode %q", ErrInvalidTransition, t.SubMode)
		}
		if t.Answer == Know {
			return Patch{Streak: StreakIncrement}, nil
		}
		return Patch{WrongCountDelta: 1, Streak: StreakReset}, nil
	}
	return Patch{}, fmt.Errorf("%w: answers are not recorded in mode %q", ErrInvalidTransition, t.Mode)
}

func (MarkLearned) patch() (Patch, error) {
	return Patch{IsLearned: boolPtr(true)}, nil
}

func (UndoLearned) patch() (Patch, error) {
	return Patch{
		IsLearned:  boolPtr(false),
		KnownCount: intPtr(0),
		Streak:     StreakReset,
	}, nil
}

func (t SetRepeatList) patch() (Patch, error) {
	return Patch{InRepeatList: boolPtr(t.Listed)}, nil
}

// Next returns the field update a transition produces.
func Next(t Transition) (Patch, error) {
	if t == nil {
		return Patch{}, fmt.Errorf("%w: nil transition", ErrInvalidTransition)
	}
	return t.patch()
}

// Apply computes the progress that results from applying t to cur.
func Apply(cur domain.Progress, t Transition) (domain.Progress, error) {
	p, err := Next(t)
	if err != nil {
		return cur, err
	}
	return p.Apply(cur), nil
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
