// Package auth manages accounts and server-side login sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "dutch_session"
	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit. Cyrillic letters take two bytes each.
	MaxPasswordBytes = 72

	bcryptCost = 10
)

// Store persists users and sessions.
type Store interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	CreateSession(ctx context.Context, s storage.Session) error
	GetSession(ctx context.Context, token string) (storage.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service registers users and issues sessions.
type Service struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewService returns a Service whose sessions last ttl.
func NewService(store Store, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, nickname string) (domain.User, storage.Session, error) {
	if len(password) < MinPasswordLength {
		return domain.User{}, storage.Session{}, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return domain.User{}, storage.Session{}, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, storage.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Nickname:     strings.TrimSpace(nickname),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return domain.User{}, storage.Session{}, ErrEmailTaken
		}
		return domain.User{}, storage.Session{}, err
	}
	s.logger.Info("user registered", "user_id", u.ID)

	sess, err := s.newSession(ctx, u.ID)
	if err != nil {
		return domain.User{}, storage.Session{}, err
	}
	return u, sess, nil
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, storage.Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, storage.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, storage.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, storage.Session{}, ErrInvalidCredentials
	}

	sess, err := s.newSession(ctx, u.ID)
	if err != nil {
		return domain.User{}, storage.Session{}, err
	}
	return u, sess, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves the user owning a live session.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUnauthenticated
	}
	sess, err := s.store.GetSession(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.User{}, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return domain.User{}, ErrUnauthenticated
	}

	u, err := s.store.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, ErrUnauthenticated
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) newSession(ctx context.Context, userID string) (storage.Session, error) {
	sess := storage.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return storage.Session{}, err
	}
	return sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user stored by Middleware, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(domain.User)
	return u, ok
}

// Middleware attaches the session's user to the request context when the
// request carries a valid session cookie. Requests without one pass
// through unchanged.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		u, err := s.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				s.logger.Error("session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, sess storage.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
