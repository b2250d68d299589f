package gitsource

import (
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{
			name:     "https URL",
			url:      "https://github.com/someone/dutch-decks.git",
			expected: filepath.Join("repos", "github.com", "someone", "dutch-decks"),
		},
		{
			name:     "https URL without suffix",
			url:      "https://gitlab.com/someone/decks",
			expected: filepath.Join("repos", "gitlab.com", "someone", "decks"),
		},
		{
			name:     "scp-like URL",
			url:      "git@github.com:someone/dutch-decks.git",
			expected: filepath.Join("repos", "github.com", "someone", "dutch-decks"),
		},
		{
			name:    "not a URL",
			url:     "/var/decks",
			wantErr: true,
		},
		{
			name:    "escapes base directory",
			url:     "https://example.com/../../etc",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected an error, got path %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalPath() returned an unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestIsRemote(t *testing.T) {
	testCases := map[string]bool{
		"https://github.com/someone/decks": true,
		"git@github.com:someone/decks.git": true,
		"/home/someone/decks":              false,
		"./decks":                          false,
	}
	for path, want := range testCases {
		if got := IsRemote(path); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", path, got, want)
		}
	}
}
