package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/review"
	"github.com/Cyber-shmuck/Dutch/internal/search"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setProgress(t *testing.T, db *DB, id int64, p domain.Progress) {
	t.Helper()
	_, err := db.conn.Exec(`UPDATE words SET is_learned = ?, known_count = ?, wrong_count = ?,
		repeat_known_count = ?, in_repeat_list = ? WHERE id = ?`,
		p.IsLearned, p.KnownCount, p.WrongCount, p.RepeatKnownCount, p.InRepeatList, id)
	if err != nil {
		t.Fatalf("Failed to set progress: %v", err)
	}
}

func TestWords(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created, err := db.CreateWord(ctx, domain.NewWord{Dutch: " fiets ", TranslationEn: "bicycle", IsUserAdded: true})
	if err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}
	if created.ID == 0 || created.Dutch != "fiets" {
		t.Errorf("Unexpected created word: %+v", created)
	}
	if created.Level != domain.LevelCustom {
		t.Errorf("Expected level to default to Custom, got %q", created.Level)
	}
	if created.Translation != "bicycle" {
		t.Errorf("Expected display translation to fall back to English, got %q", created.Translation)
	}
	if created.Progress != (domain.Progress{}) {
		t.Errorf("Expected zero progress, got %+v", created.Progress)
	}

	listed, err := db.CreateWord(ctx, domain.NewWord{Dutch: "tafel", Translation: "стол", IsUserAdded: true, InRepeatList: true})
	if err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}
	if !listed.InRepeatList {
		t.Error("Expected word created in the repeat list")
	}

	words, err := db.ListWords(ctx)
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(words) != 2 || words[0].ID != created.ID {
		t.Fatalf("Expected 2 words in id order, got %+v", words)
	}

	if err := db.DeleteWord(ctx, created.ID); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}
	if err := db.DeleteWord(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := db.GetWord(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted word, got %v", err)
	}
	if _, err := db.ApplyWordPatch(ctx, created.ID, review.Patch{WrongCountDelta: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound patching deleted word, got %v", err)
	}
}

func TestInsertSeedWordsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	seed := []domain.NewWord{
		{Dutch: "huis", TranslationRu: "дом", TranslationEn: "house", Level: domain.LevelA1},
		{Dutch: "boom", TranslationRu: "дерево", TranslationEn: "tree", Level: domain.LevelA1},
	}
	n, err := db.InsertSeedWords(ctx, seed, 0)
	if err != nil {
		t.Fatalf("InsertSeedWords failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 inserted words, got %d", n)
	}

	seed[0].TranslationEn = "home"
	n, err = db.InsertSeedWords(ctx, seed, 0)
	if err != nil {
		t.Fatalf("Second InsertSeedWords failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no new words on re-import, got %d", n)
	}

	count, err := db.CountWords(ctx)
	if err != nil {
		t.Fatalf("CountWords failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 words, got %d", count)
	}

	w, err := db.GetWord(ctx, 1)
	if err != nil {
		t.Fatalf("GetWord failed: %v", err)
	}
	if w.Translation != "дом" {
		t.Errorf("Expected display translation to default to Russian, got %q", w.Translation)
	}
}

// The single-statement update must agree with the in-memory patch.
func TestApplyWordPatchMatchesApply(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	w, err := db.CreateWord(ctx, domain.NewWord{Dutch: "kat", Translation: "cat", Level: domain.LevelA1})
	if err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}

	starts := []domain.Progress{
		{},
		{WrongCount: 2},
		{WrongCount: 1, RepeatKnownCount: 3, InRepeatList: true},
		{WrongCount: 1, RepeatKnownCount: 4, InRepeatList: true},
		{WrongCount: 1, RepeatKnownCount: 5, IsLearned: true},
		{IsLearned: true, KnownCount: 2, WrongCount: 3, RepeatKnownCount: 5},
	}
	transitions := []review.Transition{
		review.RecordAnswer{Mode: review.ModeNew, Answer: review.Know},
		review.RecordAnswer{Mode: review.ModeMy, Answer: review.DontKnow},
		review.RecordAnswer{Mode: review.ModeReview, SubMode: review.SubModeWeak, Answer: review.Know},
		review.RecordAnswer{Mode: review.ModeReview, SubMode: review.SubModeList, Answer: review.DontKnow},
		review.MarkLearned{},
		review.UndoLearned{},
		review.SetRepeatList{Listed: true},
		review.SetRepeatList{Listed: false},
	}

	for _, start := range starts {
		for _, tr := range transitions {
			t.Run(fmt.Sprintf("%+v/%s", start, tr), func(t *testing.T) {
				setProgress(t, db, w.ID, start)

				want, err := review.Apply(start, tr)
				if err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				p, err := review.Next(tr)
				if err != nil {
					t.Fatalf("Next failed: %v", err)
				}
				got, err := db.ApplyWordPatch(ctx, w.ID, p)
				if err != nil {
					t.Fatalf("ApplyWordPatch failed: %v", err)
				}
				if got.Progress != want {
					t.Errorf("Expected %+v, got %+v", want, got.Progress)
				}
			})
		}
	}
}

func TestWeakWordRecoveryScenario(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	w, err := db.CreateWord(ctx, domain.NewWord{Dutch: "hond", Translation: "dog", Level: domain.LevelA1})
	if err != nil {
		t.Fatalf("CreateWord failed: %v", err)
	}

	answer := func(tr review.Transition) domain.Word {
		t.Helper()
		p, err := review.Next(tr)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		updated, err := db.ApplyWordPatch(ctx, w.ID, p)
		if err != nil {
			t.Fatalf("ApplyWordPatch failed: %v", err)
		}
		return updated
	}

	got := answer(review.RecordAnswer{Mode: review.ModeNew, Answer: review.DontKnow})
	if !got.Weak() {
		t.Fatalf("Expected word to be weak after a miss, got %+v", got.Progress)
	}

	know := review.RecordAnswer{Mode: review.ModeReview, SubMode: review.SubModeWeak, Answer: review.Know}
	for i := 1; i < review.GraduationStreak; i++ {
		got = answer(know)
		if got.IsLearned || got.RepeatKnownCount != i {
			t.Fatalf("After %d correct answers expected streak %d and not learned, got %+v", i, i, got.Progress)
		}
	}
	got = answer(know)
	want := domain.Progress{IsLearned: true, WrongCount: 1, RepeatKnownCount: review.GraduationStreak}
	if got.Progress != want {
		t.Errorf("Expected graduation to %+v, got %+v", want, got.Progress)
	}

	got = answer(review.UndoLearned{})
	want = domain.Progress{WrongCount: 1}
	if got.Progress != want {
		t.Errorf("Expected undo to give %+v, got %+v", want, got.Progress)
	}
}

func TestSentences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	a1 := domain.LevelA1
	corpus := []domain.ContextSentence{
		{Dutch: "Het huis is groot.", English: "The house is big.", Level: &a1},
		{Dutch: "Ik woon in een huis", English: "I live in a house"},
		{Dutch: "Huis", English: "House"},
		{Dutch: "Het huisje is klein.", English: "The cottage is small."},
		{Dutch: "Het kost 50% meer.", English: "It costs 50% more."},
		{Dutch: "Het kost 50 euro.", English: "It costs 50 euros."},
		{Dutch: "Een_underscore", English: "An underscore"},
		{Dutch: "Een xunderscore", English: "An x underscore"},
	}
	for i := range 100 {
		corpus = append(corpus, domain.ContextSentence{Dutch: fmt.Sprintf("Zin nummer %d", i), English: fmt.Sprintf("Sentence number %d", i)})
	}
	// Already stored by the time the last batch is written.
	corpus = append(corpus, corpus[0])

	n, err := db.BulkInsertSentences(ctx, corpus, 0)
	if err != nil {
		t.Fatalf("BulkInsertSentences failed: %v", err)
	}
	if n != 108 {
		t.Errorf("Expected 108 inserted sentences, got %d", n)
	}
	n, err = db.BulkInsertSentences(ctx, corpus[:10], 0)
	if err != nil {
		t.Fatalf("Second BulkInsertSentences failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected duplicates to be ignored, got %d new", n)
	}

	count, err := db.CountSentences(ctx)
	if err != nil {
		t.Fatalf("CountSentences failed: %v", err)
	}
	if count != 108 {
		t.Errorf("Expected 108 sentences, got %d", count)
	}

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"all match classes", "huis", 20, []string{"Het huis is groot.", "Ik woon in een huis", "Huis", "Het huisje is klein."}},
		{"percent is literal", "50%", 20, []string{"Het kost 50% meer."}},
		{"underscore is literal", "een_", 20, []string{"Een_underscore"}},
		{"limit applies", "zin", 20, nil},
		{"no match", "fiets", 20, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := db.SearchSentences(ctx, tc.query, tc.limit)
			if err != nil {
				t.Fatalf("SearchSentences failed: %v", err)
			}
			if tc.want == nil {
				if len(got) != tc.limit {
					t.Errorf("Expected %d results, got %d", tc.limit, len(got))
				}
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d results, got %d: %+v", len(tc.want), len(got), got)
			}
			for i := range got {
				if got[i].Dutch != tc.want[i] {
					t.Errorf("Result %d: expected %q, got %q", i, tc.want[i], got[i].Dutch)
				}
			}
		})
	}

	got, err := db.SearchSentences(ctx, "het huis is groot.", 20)
	if err != nil {
		t.Fatalf("SearchSentences failed: %v", err)
	}
	if len(got) != 1 || got[0].Level == nil || *got[0].Level != domain.LevelA1 {
		t.Errorf("Expected the level to round-trip, got %+v", got)
	}
}

// SearchSentences must select exactly what search.Match selects over the
// same corpus in id order.
func TestSearchSentencesAgreesWithMatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	corpus := []domain.ContextSentence{
		{Dutch: "Één keer per week.", English: "Once a week."},
		{Dutch: "Hij zegt één woord.", English: "He says one word."},
		{Dutch: "ÉÉN", English: "ONE"},
		{Dutch: "Het huis is groot.", English: "The house is big."},
		{Dutch: "Huis", English: "House"},
		{Dutch: "Het huisje is klein.", English: "The cottage is small."},
		{Dutch: "Ik woon in een huis", English: "I live in a house"},
		{Dutch: "Het kost 50% meer.", English: "It costs 50% more."},
		{Dutch: "Het kost 50 euro.", English: "It costs 50 euros."},
		{Dutch: "Een_underscore", English: "An underscore"},
		{Dutch: "Een xunderscore", English: "An x underscore"},
		{Dutch: `Pad C:\temp\x`, English: "Path"},
		{Dutch: "Überhaupt niet", English: "Not at all"},
	}
	if _, err := db.BulkInsertSentences(ctx, corpus, 0); err != nil {
		t.Fatalf("BulkInsertSentences failed: %v", err)
	}

	queries := []string{"één", "ÉÉN", " Één ", "huis", "HUIS", "50%", "een_", `\temp`, "über", "niet", "week.", "fiets", "e"}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			want := search.Match(corpus, q, search.MaxResults)
			got, err := db.SearchSentences(ctx, search.Normalize(q), search.MaxResults)
			if err != nil {
				t.Fatalf("SearchSentences failed: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("Expected %d results, got %d: %+v", len(want), len(got), got)
			}
			for i := range got {
				if got[i].Dutch != want[i].Dutch {
					t.Errorf("Result %d: expected %q, got %q", i, want[i].Dutch, got[i].Dutch)
				}
			}
		})
	}

	got, err := db.SearchSentences(ctx, "één", search.MaxResults)
	if err != nil {
		t.Fatalf("SearchSentences failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected capitalised accented sentences to match, got %+v", got)
	}
}

func TestRules(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	seed := []domain.Rule{
		{Title: "Артикли", Explanation: "de/het", Difficulty: domain.LevelA1},
		{Title: "Порядок слов", Explanation: "V2", Difficulty: domain.LevelA2},
	}
	if n, err := db.InsertSeedRules(ctx, seed, 0); err != nil || n != 2 {
		t.Fatalf("InsertSeedRules: expected 2 inserted, got %d, %v", n, err)
	}
	if n, err := db.InsertSeedRules(ctx, seed, 0); err != nil || n != 0 {
		t.Fatalf("InsertSeedRules again: expected 0 inserted, got %d, %v", n, err)
	}

	all, err := db.ListRules(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListRules: expected 2 rules, got %d, %v", len(all), err)
	}
	a2, err := db.ListRules(ctx, domain.LevelA2)
	if err != nil || len(a2) != 1 || a2[0].Title != "Порядок слов" {
		t.Fatalf("ListRules(A2): unexpected %+v, %v", a2, err)
	}

	created, err := db.CreateRule(ctx, domain.Rule{Title: "Модальные глаголы", Explanation: "kunnen", Difficulty: domain.LevelB1})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	title := "Modal verbs"
	updated, err := db.UpdateRule(ctx, created.ID, RuleUpdate{TitleEn: &title})
	if err != nil {
		t.Fatalf("UpdateRule failed: %v", err)
	}
	if updated.TitleEn != title || updated.Title != created.Title || updated.Difficulty != domain.LevelB1 {
		t.Errorf("Expected only title_en to change, got %+v", updated)
	}
	if _, err := db.UpdateRule(ctx, 999, RuleUpdate{TitleEn: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating unknown rule, got %v", err)
	}
	if _, err := db.UpdateRule(ctx, 999, RuleUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for empty update of unknown rule, got %v", err)
	}

	if err := db.DeleteRule(ctx, created.ID); err != nil {
		t.Fatalf("DeleteRule failed: %v", err)
	}
	if err := db.DeleteRule(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestVerbs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	seed := []domain.Verb{
		{Infinitive: "zijn", PastSingular: "was", PastParticiple: "geweest", Translation: "быть", Example: "Ik ben thuis."},
		{Infinitive: "hebben", PastSingular: "had", PastParticiple: "gehad", Translation: "иметь", Example: "Ik heb een kat."},
	}
	if n, err := db.InsertSeedVerbs(ctx, seed, 0); err != nil || n != 2 {
		t.Fatalf("InsertSeedVerbs: expected 2 inserted, got %d, %v", n, err)
	}

	v, err := db.SetVerbLearned(ctx, 2, true)
	if err != nil {
		t.Fatalf("SetVerbLearned failed: %v", err)
	}
	if !v.IsLearned || v.Infinitive != "hebben" {
		t.Errorf("Unexpected verb %+v", v)
	}
	if _, err := db.SetVerbLearned(ctx, 42, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	verbs, err := db.ListVerbs(ctx)
	if err != nil || len(verbs) != 2 {
		t.Fatalf("ListVerbs: expected 2 verbs, got %d, %v", len(verbs), err)
	}
	if verbs[0].IsLearned || !verbs[1].IsLearned {
		t.Errorf("Expected only the second verb learned, got %+v", verbs)
	}
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := domain.User{ID: "u-1", Email: "anna@example.com", PasswordHash: "hash", Nickname: "anna", CreatedAt: now}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	dup := u
	dup.ID = "u-2"
	if err := db.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for taken email, got %v", err)
	}

	got, err := db.GetUserByEmail(ctx, "anna@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != "u-1" || got.Nickname != "anna" || !got.CreatedAt.Equal(now) {
		t.Errorf("Unexpected user %+v", got)
	}
	if _, err := db.GetUserByID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	live := Session{Token: "live", UserID: "u-1", ExpiresAt: now.Add(time.Hour)}
	stale := Session{Token: "stale", UserID: "u-1", ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []Session{live, stale} {
		if err := db.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	n, err := db.DeleteExpiredSessions(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpiredSessions: expected 1 removed, got %d, %v", n, err)
	}
	if _, err := db.GetSession(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected stale session to be gone, got %v", err)
	}
	s, err := db.GetSession(ctx, "live")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if s.UserID != "u-1" || !s.ExpiresAt.Equal(live.ExpiresAt) {
		t.Errorf("Unexpected session %+v", s)
	}

	if err := db.DeleteSession(ctx, "live"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := db.GetSession(ctx, "live"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestSources(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	src, err := db.InsertSource(ctx, "/decks", domain.SourceLocal)
	if err != nil {
		t.Fatalf("InsertSource failed: %v", err)
	}
	if src.LastScanned != nil {
		t.Errorf("Expected a new source to be unscanned, got %v", src.LastScanned)
	}
	if _, err := db.InsertSource(ctx, "/decks", domain.SourceLocal); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	scanned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.UpdateSourceLastScanned(ctx, src.ID, scanned); err != nil {
		t.Fatalf("UpdateSourceLastScanned failed: %v", err)
	}
	found, err := db.FindSourceByPath(ctx, "/decks")
	if err != nil {
		t.Fatalf("FindSourceByPath failed: %v", err)
	}
	if found.LastScanned == nil || !found.LastScanned.Equal(scanned) {
		t.Errorf("Expected last scanned %v, got %v", scanned, found.LastScanned)
	}

	if _, err := db.BulkInsertSentences(ctx, []domain.ContextSentence{{Dutch: "Goedemorgen", English: "Good morning"}}, src.ID); err != nil {
		t.Fatalf("BulkInsertSentences failed: %v", err)
	}
	if _, err := db.InsertSeedWords(ctx, []domain.NewWord{{Dutch: "ochtend", Translation: "morning", Level: domain.LevelA1}}, src.ID); err != nil {
		t.Fatalf("InsertSeedWords failed: %v", err)
	}
	hashes, err := db.SentenceHashesBySource(ctx, src.ID)
	if err != nil || len(hashes) != 1 {
		t.Fatalf("SentenceHashesBySource: expected 1 hash, got %v, %v", hashes, err)
	}

	if err := db.DeleteSource(ctx, src.ID); err != nil {
		t.Fatalf("DeleteSource failed: %v", err)
	}
	if n, _ := db.CountSentences(ctx); n != 0 {
		t.Errorf("Expected the source's sentences to be removed, got %d", n)
	}
	if n, _ := db.CountWords(ctx); n != 1 {
		t.Errorf("Expected words to survive source removal, got %d", n)
	}
	if err := db.DeleteSource(ctx, src.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
	sources, err := db.GetAllSources(ctx)
	if err != nil || len(sources) != 0 {
		t.Errorf("Expected no sources, got %v, %v", sources, err)
	}
}
