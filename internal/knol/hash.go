// Package knol derives stable identities for seeded content, so importing
// the same deck twice inserts nothing the second time.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Normalize cleans each part and joins them.
// It trims whitespace, lowercases, and normalizes line endings for each part
// before joining them.
func Normalize(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, part := range parts {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		cleaned[i] = p
	}
	// Joined with a newline so "ab"+"c" and "a"+"bc" differ.
	return strings.Join(cleaned, "\n")
}

// Hash normalizes the parts and returns their SHA-256 hash as a hex string.
func Hash(parts ...string) string {
	hashBytes := sha256.Sum256([]byte(Normalize(parts...)))
	return fmt.Sprintf("%x", hashBytes)
}

// WordHash identifies a seeded word by its Dutch text and level, so edits to
// its translations do not create a second copy with fresh progress.
func WordHash(w domain.NewWord) string {
	return Hash("word", w.Dutch, string(w.Level))
}

// SentenceHash identifies a context sentence by its text and translation.
func SentenceHash(s domain.ContextSentence) string {
	return Hash("sentence", s.Dutch, s.English)
}

// RuleHash identifies a grammar rule by its title.
func RuleHash(r domain.Rule) string {
	return Hash("rule", r.Title)
}

// VerbHash identifies an irregular verb by its infinitive.
func VerbHash(v domain.Verb) string {
	return Hash("verb", v.Infinitive)
}
