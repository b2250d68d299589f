// Package parser reads deck files: plain-text blocks of prefixed fields
// describing words, example sentences, grammar rules and irregular verbs.
//
// A block starts with a kind prefix (W: word, S: sentence, R: rule,
// V: verb) and runs until the next kind prefix or a "---" line. Lines
// without a known prefix continue the previous field.
//
//	W: huis
//	RU: дом
//	EN: house
//	L: A1
//	---
//	S: Het huis is groot.
//	EN: The house is big.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Kind prefixes.
const (
	wordPrefix     = "W"
	sentencePrefix = "S"
	rulePrefix     = "R"
	verbPrefix     = "V"
)

// Field prefixes. Their meaning depends on the kind of the block.
const (
	translationField    = "T"
	ruField             = "RU"
	enField             = "EN"
	ukField             = "UK"
	levelField          = "L"
	explanationField    = "X"
	explanationEnField  = "XEN"
	explanationUkField  = "XUK"
	pastSingularField   = "PS"
	pastParticipleField = "PP"
)

var kindPrefixes = map[string]bool{
	wordPrefix: true, sentencePrefix: true, rulePrefix: true, verbPrefix: true,
}

var fieldPrefixes = map[string]bool{
	translationField: true, ruField: true, enField: true, ukField: true, levelField: true,
	explanationField: true, explanationEnField: true, explanationUkField: true,
	pastSingularField: true, pastParticipleField: true,
}

const separator = "---"

// Deck is the content parsed from one file.
type Deck struct {
	Words     []domain.NewWord
	Sentences []domain.ContextSentence
	Rules     []domain.Rule
	Verbs     []domain.Verb
	// Skipped lists blocks that were dropped because a required field was
	// missing or invalid.
	Skipped []Problem
}

// Problem describes a block that could not be used.
type Problem struct {
	Line   int
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Reason)
}

// Len returns the number of entries in the deck.
func (d Deck) Len() int {
	return len(d.Words) + len(d.Sentences) + len(d.Rules) + len(d.Verbs)
}

// Merge appends the entries of other to d.
func (d *Deck) Merge(other Deck) {
	d.Words = append(d.Words, other.Words...)
	d.Sentences = append(d.Sentences, other.Sentences...)
	d.Rules = append(d.Rules, other.Rules...)
	d.Verbs = append(d.Verbs, other.Verbs...)
	d.Skipped = append(d.Skipped, other.Skipped...)
}

type block struct {
	kind   string
	line   int
	fields map[string]string
}

// ParseFile reads a file from the given path and extracts its deck.
func ParseFile(path string) (Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return Deck{}, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts a deck.
func Parse(r io.Reader) (Deck, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		deck      Deck
		current   *block
		field     string
		fieldBody []string
		lineNo    int
	)

	flushField := func() {
		if current != nil && field != "" {
			current.fields[field] = strings.TrimSpace(strings.Join(fieldBody, "\n"))
		}
		field = ""
		fieldBody = nil
	}

	finishBlock := func() {
		flushField()
		if current != nil {
			deck.add(*current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == separator {
			finishBlock()
			continue
		}

		key, rest, ok := splitPrefix(line)
		switch {
		case ok && kindPrefixes[key]:
			// A kind prefix always starts a new block.
			finishBlock()
			current = &block{kind: key, line: lineNo, fields: map[string]string{}}
			field = key
			fieldBody = []string{rest}
		case ok && fieldPrefixes[key] && current != nil:
			flushField()
			field = key
			fieldBody = []string{rest}
		case field != "":
			fieldBody = append(fieldBody, line)
		}
	}

	finishBlock() // Finish the very last block in the file

	if err := scanner.Err(); err != nil {
		return Deck{}, err
	}

	return deck, nil
}

// splitPrefix splits "KEY: value" into its key and value. The space after
// the colon is optional.
func splitPrefix(line string) (string, string, bool) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return "", "", false
	}
	key := line[:i]
	if !kindPrefixes[key] && !fieldPrefixes[key] {
		return "", "", false
	}
	rest := line[i+1:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	return key, rest, true
}

func (d *Deck) add(b block) {
	skip := func(reason string) {
		d.Skipped = append(d.Skipped, Problem{Line: b.line, Reason: reason})
	}
	f := b.fields
	if f[b.kind] == "" {
		skip("empty " + b.kind + " field")
		return
	}

	switch b.kind {
	case wordPrefix:
		level, err := domain.ParseLevel(f[levelField])
		if err != nil || !level.IsCEFR() {
			skip(fmt.Sprintf("word %q needs a level A1..B2", f[wordPrefix]))
			return
		}
		w := domain.NewWord{
			Dutch:         f[wordPrefix],
			Translation:   f[translationField],
			TranslationRu: f[ruField],
			TranslationEn: f[enField],
			TranslationUk: f[ukField],
			Level:         level,
		}
		if w.Translation == "" && w.TranslationRu == "" && w.TranslationEn == "" && w.TranslationUk == "" {
			skip(fmt.Sprintf("word %q has no translation", w.Dutch))
			return
		}
		d.Words = append(d.Words, w)

	case sentencePrefix:
		if f[enField] == "" {
			skip(fmt.Sprintf("sentence %q has no English translation", f[sentencePrefix]))
			return
		}
		s := domain.ContextSentence{Dutch: f[sentencePrefix], English: f[enField]}
		if raw := f[levelField]; raw != "" {
			level, err := domain.ParseLevel(raw)
			if err != nil || !level.IsCEFR() {
				skip(fmt.Sprintf("sentence %q has an invalid level %q", s.Dutch, raw))
				return
			}
			s.Level = &level
		}
		d.Sentences = append(d.Sentences, s)

	case rulePrefix:
		level, err := domain.ParseLevel(f[levelField])
		if err != nil || !level.IsCEFR() {
			skip(fmt.Sprintf("rule %q needs a level A1..B2", f[rulePrefix]))
			return
		}
		if f[explanationField] == "" {
			skip(fmt.Sprintf("rule %q has no explanation", f[rulePrefix]))
			return
		}
		d.Rules = append(d.Rules, domain.Rule{
			Title:         f[rulePrefix],
			Explanation:   f[explanationField],
			TitleEn:       f[enField],
			ExplanationEn: f[explanationEnField],
			TitleUk:       f[ukField],
			ExplanationUk: f[explanationUkField],
			Difficulty:    level,
		})

	case verbPrefix:
		if f[pastSingularField] == "" || f[pastParticipleField] == "" {
			skip(fmt.Sprintf("verb %q needs PS and PP forms", f[verbPrefix]))
			return
		}
		d.Verbs = append(d.Verbs, domain.Verb{
			Infinitive:     f[verbPrefix],
			PastSingular:   f[pastSingularField],
			PastParticiple: f[pastParticipleField],
			Translation:    f[translationField],
			Example:        f[explanationField],
		})
	}
}
