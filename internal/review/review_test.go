package review

import (
	"errors"
	"testing"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

func applyAll(t *testing.T, p domain.Progress, transitions ...Transition) domain.Progress {
	t.Helper()
	for _, tr := range transitions {
		var err error
		p, err = Apply(p, tr)
		if err != nil {
			t.Fatalf("Apply(%s) returned an unexpected error: %v", tr, err)
		}
	}
	return p
}

var (
	reviewKnow     = RecordAnswer{Mode: ModeReview, SubMode: SubModeWeak, Answer: Know}
	reviewDontKnow = RecordAnswer{Mode: ModeReview, SubMode: SubModeWeak, Answer: DontKnow}
)

func TestRecordAnswerNewAndMy(t *testing.T) {
	for _, mode := range []Mode{ModeNew, ModeMy} {
		t.Run(string(mode)+" know graduates", func(t *testing.T) {
			got := applyAll(t, domain.Progress{WrongCount: 2}, RecordAnswer{Mode: mode, Answer: Know})
			if !got.IsLearned {
				t.Errorf("Expected word to be learned after know in %s mode", mode)
			}
			if got.WrongCount != 2 {
				t.Errorf("Expected wrongCount to stay 2, got %d", got.WrongCount)
			}
		})

		t.Run(string(mode)+" dont-know counts a mistake", func(t *testing.T) {
			got := applyAll(t, domain.Progress{}, RecordAnswer{Mode: mode, Answer: DontKnow})
			if got.WrongCount != 1 {
				t.Errorf("Expected wrongCount 1, got %d", got.WrongCount)
			}
			if got.IsLearned {
				t.Error("Expected word to stay unlearned")
			}
		})
	}
}

func TestReviewStreakGraduates(t *testing.T) {
	p := domain.Progress{InRepeatList: true}
	for i := 1; i <= GraduationStreak; i++ {
		p = applyAll(t, p, reviewKnow)
		if p.RepeatKnownCount != i {
			t.Fatalf("After %d know answers expected repeatKnownCount %d, got %d", i, i, p.RepeatKnownCount)
		}
		if i < GraduationStreak && (p.IsLearned || !p.InRepeatList) {
			t.Fatalf("Word graduated early at streak %d: %+v", i, p)
		}
	}
	if !p.IsLearned {
		t.Error("Expected word to be learned at the end of the streak")
	}
	if p.InRepeatList {
		t.Error("Expected word to leave the repeat list on graduation")
	}
}

func TestReviewStreakIsCapped(t *testing.T) {
	got := applyAll(t, domain.Progress{RepeatKnownCount: GraduationStreak}, reviewKnow)
	if got.RepeatKnownCount != GraduationStreak {
		t.Errorf("Expected repeatKnownCount to stay at %d, got %d", GraduationStreak, got.RepeatKnownCount)
	}
}

func TestReviewDontKnowResetsStreak(t *testing.T) {
	for prior := 0; prior < GraduationStreak; prior++ {
		got := applyAll(t, domain.Progress{RepeatKnownCount: prior, WrongCount: 1}, reviewDontKnow)
		if got.RepeatKnownCount != 0 {
			t.Errorf("From streak %d expected reset to 0, got %d", prior, got.RepeatKnownCount)
		}
		if got.WrongCount != 2 {
			t.Errorf("From streak %d expected wrongCount 2, got %d", prior, got.WrongCount)
		}
	}
}

func TestScenarios(t *testing.T) {
	t.Run("five know answers in review", func(t *testing.T) {
		got := applyAll(t, domain.Progress{},
			reviewKnow, reviewKnow, reviewKnow, reviewKnow, reviewKnow)
		if got.RepeatKnownCount != 5 || !got.IsLearned || got.InRepeatList {
			t.Errorf("Expected {repeatKnownCount:5 isLearned:true inRepeatList:false}, got %+v", got)
		}
	})

	t.Run("miss in the middle of a streak", func(t *testing.T) {
		got := applyAll(t, domain.Progress{},
			reviewKnow, reviewKnow, reviewDontKnow, reviewKnow)
		if got.RepeatKnownCount != 1 || got.WrongCount != 1 || got.IsLearned {
			t.Errorf("Expected {repeatKnownCount:1 wrongCount:1 isLearned:false}, got %+v", got)
		}
	})

	t.Run("three misses in new mode make a weak word", func(t *testing.T) {
		miss := RecordAnswer{Mode: ModeNew, Answer: DontKnow}
		got := applyAll(t, domain.Progress{}, miss, miss, miss)
		if got.WrongCount != 3 || got.IsLearned {
			t.Errorf("Expected {wrongCount:3 isLearned:false}, got %+v", got)
		}
		if !got.Weak() {
			t.Error("Expected the word to be weak")
		}
	})
}

func TestUndoLearned(t *testing.T) {
	states := []domain.Progress{
		{},
		{IsLearned: true, KnownCount: 3, WrongCount: 4, RepeatKnownCount: 5},
		{IsLearned: false, KnownCount: 1, WrongCount: 0, RepeatKnownCount: 2, InRepeatList: true},
	}
	for _, s := range states {
		got := applyAll(t, s, UndoLearned{})
		if got.IsLearned || got.KnownCount != 0 || got.RepeatKnownCount != 0 {
			t.Errorf("Undo from %+v produced %+v", s, got)
		}
		if got.WrongCount != s.WrongCount {
			t.Errorf("Undo changed wrongCount from %d to %d", s.WrongCount, got.WrongCount)
		}
		if got.InRepeatList != s.InRepeatList {
			t.Errorf("Undo changed inRepeatList from %t to %t", s.InRepeatList, got.InRepeatList)
		}
	}
}

func TestSetRepeatList(t *testing.T) {
	got := applyAll(t, domain.Progress{}, SetRepeatList{Listed: true})
	if !got.InRepeatList {
		t.Error("Expected word to be in the repeat list")
	}
	got = applyAll(t, got, SetRepeatList{Listed: false})
	if got.InRepeatList {
		t.Error("Expected word to leave the repeat list")
	}
}

func TestInvalidTransitions(t *testing.T) {
	testCases := []struct {
		name string
		tr   Transition
	}{
		{"learned mode", RecordAnswer{Mode: ModeLearned, Answer: Know}},
		{"unknown mode", RecordAnswer{Mode: "flash", Answer: Know}},
		{"unknown answer", RecordAnswer{Mode: ModeNew, Answer: "maybe"}},
		{"unknown sub mode", RecordAnswer{Mode: ModeReview, SubMode: "all", Answer: Know}},
		{"nil", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := domain.Progress{WrongCount: 1, RepeatKnownCount: 2}
			got, err := Apply(before, tc.tr)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Expected ErrInvalidTransition, got %v", err)
			}
			if got != before {
				t.Errorf("Expected progress to be unchanged, got %+v", got)
			}
		})
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("Expected zero patch to be empty")
	}
	p, _ := Next(MarkLearned{})
	if p.Empty() {
		t.Error("Expected mark-learned patch to be non-empty")
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("review"); err != nil {
		t.Errorf("Expected review to parse, got %v", err)
	}
	if _, err := ParseMode("Review"); err == nil {
		t.Error("Expected mode parsing to be case-sensitive")
	}
	sm, err := ParseSubMode("")
	if err != nil || sm != SubModeWeak {
		t.Errorf("Expected empty sub mode to default to weak, got %q, %v", sm, err)
	}
}
