package domain

import "time"

// SourceType says how a content source is fetched.
type SourceType string

const (
	SourceLocal SourceType = "local"
	SourceGit   SourceType = "git"
)

// Source is a directory or git repository holding decks and word lists.
type Source struct {
	ID          int64      `json:"id" db:"id"`
	Path        string     `json:"path" db:"path"`
	Type        SourceType `json:"type" db:"type"`
	LastScanned *time.Time `json:"lastScanned" db:"last_scanned"`
}
