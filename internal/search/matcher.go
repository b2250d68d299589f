// Package search finds example sentences containing a query.
package search

import (
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// MaxResults bounds the number of sentences returned for one query.
const MaxResults = 20

// Priority ranks how closely a sentence matches a query. Lower is closer.
type Priority int

const (
	NoMatch Priority = iota
	Exact
	Word
	Prefix
	Suffix
	Substring
)

func (p Priority) String() string {
	switch p {
	case Exact:
		return "exact"
	case Word:
		return "word"
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Substring:
		return "substring"
	}
	return "none"
}

// Normalize trims and lowercases a query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Classify returns the closest way text matches the normalized query q.
func Classify(text, q string) Priority {
	if q == "" {
		return NoMatch
	}
	t := strings.ToLower(text)
	switch {
	case t == q:
		return Exact
	case strings.Contains(t, " "+q+" "):
		return Word
	case strings.HasPrefix(t, q+" "):
		return Prefix
	case strings.HasSuffix(t, " "+q):
		return Suffix
	case strings.Contains(t, q):
		return Substring
	}
	return NoMatch
}

// Match filters corpus in order, keeping up to limit sentences that match query.
func Match(corpus []domain.ContextSentence, query string, limit int) []domain.ContextSentence {
	q := Normalize(query)
	out := []domain.ContextSentence{}
	if q == "" {
		return out
	}
	for _, s := range corpus {
		if len(out) >= limit {
			break
		}
		if Classify(s.Dutch, q) != NoMatch {
			out = append(out, s)
		}
	}
	return out
}

// LikeEscape is the escape character used in the patterns from LikePatterns.
const LikeEscape = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Patterns are SQL LIKE patterns for the word, prefix, suffix and substring
// match classes. Exact matching compares against the query itself.
type Patterns struct {
	Word      string
	Prefix    string
	Suffix    string
	Substring string
}

// LikePatterns builds the patterns for the normalized query q. Wildcards in
// q are escaped so they only match themselves.
func LikePatterns(q string) Patterns {
	e := likeEscaper.Replace(q)
	return Patterns{
		Word:      "% " + e + " %",
		Prefix:    e + " %",
		Suffix:    "% " + e,
		Substring: "%" + e + "%",
	}
}
