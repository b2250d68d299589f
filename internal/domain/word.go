package domain

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency tag. User-added words carry LevelCustom.
type Level string

const (
	LevelA1     Level = "A1"
	LevelA2     Level = "A2"
	LevelB1     Level = "B1"
	LevelB2     Level = "B2"
	LevelCustom Level = "Custom"
)

// CEFRLevels lists the levels a base word, rule or sentence can be tagged with.
var CEFRLevels = []Level{LevelA1, LevelA2, LevelB1, LevelB2}

// ParseLevel accepts a CEFR tag in any case, or "custom".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(LevelCustom)) {
		return LevelCustom, nil
	}
	l := Level(strings.ToUpper(s))
	if !l.IsCEFR() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// IsCEFR reports whether l is one of A1..B2.
func (l Level) IsCEFR() bool {
	for _, c := range CEFRLevels {
		if l == c {
			return true
		}
	}
	return false
}

// Progress holds the study counters of a word.
type Progress struct {
	IsLearned        bool `json:"isLearned" db:"is_learned"`
	KnownCount       int  `json:"knownCount" db:"known_count"`
	WrongCount       int  `json:"wrongCount" db:"wrong_count"`
	RepeatKnownCount int  `json:"repeatKnownCount" db:"repeat_known_count"`
	InRepeatList     bool `json:"inRepeatList" db:"in_repeat_list"`
}

// Weak reports whether the word has been missed at least once and is still being studied.
func (p Progress) Weak() bool {
	return p.WrongCount > 0 && !p.IsLearned
}

// Word is a vocabulary entry together with its progress counters.
type Word struct {
	ID            int64  `json:"id" db:"id"`
	Dutch         string `json:"dutch" db:"dutch"`
	Translation   string `json:"translation" db:"translation"`
	TranslationRu string `json:"translationRu" db:"translation_ru"`
	TranslationEn string `json:"translationEn" db:"translation_en"`
	TranslationUk string `json:"translationUk" db:"translation_uk"`
	Level         Level  `json:"level" db:"level"`
	IsUserAdded   bool   `json:"isUserAdded" db:"is_user_added"`
	Progress
}

// NewWord holds the fields supplied when a word is created.
type NewWord struct {
	Dutch         string
	Translation   string
	TranslationRu string
	TranslationEn string
	TranslationUk string
	Level         Level
	IsUserAdded   bool
	InRepeatList  bool
}
