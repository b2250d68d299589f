package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Cyber-shmuck/Dutch/internal/domain"
)

// Session is a server-side login session.
type Session struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

const userColumns = "id, email, password_hash, nickname, created_at"

// CreateUser inserts a user. It returns ErrDuplicate if the email is taken.
func (db *DB) CreateUser(ctx context.Context, u domain.User) error {
	_, err := db.conn.ExecContext(ctx,
		db.rebind("INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)"),
		u.ID, u.Email, u.PasswordHash, u.Nickname, u.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return db.getUser(ctx, "email", email)
}

// GetUserByID looks a user up by id.
func (db *DB) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return db.getUser(ctx, "id", id)
}

func (db *DB) getUser(ctx context.Context, col, value string) (domain.User, error) {
	var u domain.User
	err := db.conn.GetContext(ctx, &u, db.rebind("SELECT "+userColumns+" FROM users WHERE "+col+" = ?"), value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateSession stores a session.
func (db *DB) CreateSession(ctx context.Context, s Session) error {
	_, err := db.conn.ExecContext(ctx,
		db.rebind("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)"),
		s.Token, s.UserID, s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token. Expiry is left to the caller.
func (db *DB) GetSession(ctx context.Context, token string) (Session, error) {
	var s Session
	err := db.conn.GetContext(ctx, &s,
		db.rebind("SELECT token, user_id, expires_at FROM sessions WHERE token = ?"), token)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	if _, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM sessions WHERE token = ?"), token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now and
// returns how many were removed.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM sessions WHERE expires_at < ?"), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired sessions: %w", err)
	}
	return int(n), nil
}
