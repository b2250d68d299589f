package knol

import (
	"testing"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

func TestNormalize(t *testing.T) {
	expected := "het huis\nthe house\r\nis big"
	normalized := Normalize("  Het HUIS \r\n", "The house\r\r\nis big")
	if normalized != expected {
		t.Errorf("Expected normalized string to be %q, but got %q", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		// Hash for "q\na\nc"
		expectedHash := "eb2456c1ee4f36305069dd0f63a30e92d5443129f5e8fd9a5ec490fbc4d4d8a2"
		if hash := Hash("Q", "A", "C"); hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		if Hash("ab", "c") == Hash("a", "bc") {
			t.Error("Expected different hashes for different part boundaries")
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		s1 := domain.ContextSentence{Dutch: "  Het huis is groot. ", English: "The house is big."}
		s2 := domain.ContextSentence{Dutch: "het huis is groot.", English: "THE HOUSE IS BIG."}
		if SentenceHash(s1) != SentenceHash(s2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("word identity ignores translations", func(t *testing.T) {
		w1 := domain.NewWord{Dutch: "huis", TranslationEn: "house", Level: domain.LevelA1}
		w2 := domain.NewWord{Dutch: "huis", TranslationEn: "home", Level: domain.LevelA1}
		if WordHash(w1) != WordHash(w2) {
			t.Error("Expected translation edits to keep the word identity")
		}
		w3 := domain.NewWord{Dutch: "huis", Level: domain.LevelA2}
		if WordHash(w1) == WordHash(w3) {
			t.Error("Expected different levels to give different identities")
		}
	})

	t.Run("kinds do not collide", func(t *testing.T) {
		r := domain.Rule{Title: "zijn"}
		v := domain.Verb{Infinitive: "zijn"}
		if RuleHash(r) == VerbHash(v) {
			t.Error("Expected a rule and a verb with the same text to differ")
		}
	})
}
