// Package translate pre-fills translations of Dutch words.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Cyber-shmuck/Dutch/internal/cache"
)

// DefaultBaseURL is the public MyMemory endpoint.
const DefaultBaseURL = "https://api.mymemory.translated.net"

// minWordLength is the shortest input, in runes, that is sent for translation.
const minWordLength = 2

// Result holds the translations of one word. Missing ones are empty.
type Result struct {
	En string `json:"en"`
	Ru string `json:"ru"`
	Uk string `json:"uk"`
}

// Empty reports whether no translation was found.
func (r Result) Empty() bool {
	return r.En == "" && r.Ru == "" && r.Uk == ""
}

// Provider translates a Dutch word. It is best effort: failures yield
// empty fields, never an error.
type Provider interface {
	Translate(ctx context.Context, word string) Result
}

// Normalize trims and lowercases a word.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// MyMemory is a Provider backed by the MyMemory translation API.
type MyMemory struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewMyMemory returns a MyMemory client. Each request is bounded by timeout.
func NewMyMemory(baseURL string, timeout time.Duration, logger *slog.Logger) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &MyMemory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Translate asks for the English, Russian and Ukrainian translations in
// parallel. Echoes of the input are discarded.
func (m *MyMemory) Translate(ctx context.Context, word string) Result {
	word = Normalize(word)
	if utf8.RuneCountInString(word) < minWordLength {
		return Result{}
	}

	var res Result
	targets := []struct {
		lang string
		dst  *string
	}{
		{"en", &res.En},
		{"ru", &res.Ru},
		{"uk", &res.Uk},
	}

	var g errgroup.Group
	for _, target := range targets {
		g.Go(func() error {
			text, err := m.fetch(ctx, word, target.lang)
			if err != nil {
				return fmt.Errorf("nl|%s: %w", target.lang, err)
			}
			*target.dst = clean(text, word)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Warn("translation request failed", "word", word, "error", err)
	}
	return res
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

func (m *MyMemory) fetch(ctx context.Context, word, lang string) (string, error) {
	q := url.Values{}
	q.Set("q", word)
	q.Set("langpair", "nl|"+lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return body.ResponseData.TranslatedText, nil
}

// clean drops a translation that merely repeats the word and capitalises
// the first letter of the rest.
func clean(text, word string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.ToLower(text) == word {
		return ""
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}

// Cached memoises the results of another Provider. Empty results are not
// stored so a failed lookup is retried next time.
type Cached struct {
	provider Provider
	cache    cache.Cache[Result]
}

// NewCached wraps provider with c.
func NewCached(provider Provider, c cache.Cache[Result]) *Cached {
	return &Cached{provider: provider, cache: c}
}

func (c *Cached) Translate(ctx context.Context, word string) Result {
	key := Normalize(word)
	if hit, ok := c.cache.Get(ctx, key); ok {
		return hit
	}
	res := c.provider.Translate(ctx, key)
	if !res.Empty() {
		c.cache.Set(ctx, key, res)
	}
	return res
}
