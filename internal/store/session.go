package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
)

// Login authenticates as the user registered under email. Any non-empty
// password is accepted: this is a demo workspace with no credential
// check. On failure the session is left unchanged.
func (s *SQLiteStore) Login(ctx context.Context, email, password string) (*model.User, error) {
	if password == "" {
		return nil, ErrInvalidLogin
	}

	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidLogin
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()

	u := *user
	return &u, nil
}

// Logout clears the session. Unconditional; safe to call when nobody
// is signed in.
func (s *SQLiteStore) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Signup registers a new account with a default avatar and role and
// signs in as it. All three fields are required. Duplicate emails are
// permitted: there is no uniqueness check against existing accounts.
func (s *SQLiteStore) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	if strings.TrimSpace(name) == "" ||
		strings.TrimSpace(email) == "" ||
		password == "" {
		return nil, ErrMissingField
	}

	user := model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		AvatarURL: model.DefaultAvatarURL,
		Role:      model.DefaultRole,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.insertUser(ctx, user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()

	u := user
	return &u, nil
}

// CurrentUser returns a copy of the session user, if any.
func (s *SQLiteStore) CurrentUser() (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	u := *s.current
	return &u, true
}

// requireUser returns the session user or ErrNotAuthenticated.
func (s *SQLiteStore) requireUser() (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.User{}, ErrNotAuthenticated
	}
	return *s.current, nil
}

// RegisterUser inserts a user into the registry without signing in.
// Used by the fixture seed.
func (s *SQLiteStore) RegisterUser(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if err := s.insertUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLiteStore) insertUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.AvatarURL, user.Role,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUsers retrieves every registered user, ordered by registration time.
func (s *SQLiteStore) GetUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM users ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetUserByID retrieves a single user. Returns nil when the id is unknown.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = ?", id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, nil
}

// FindUserByEmail returns the earliest-registered user with the given
// email, or nil when none matches. Duplicate emails resolve to the
// oldest account.
func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM users WHERE email = ? ORDER BY created_at LIMIT 1", email)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &u, nil
}
