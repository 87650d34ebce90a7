// Package session persists the logged-in storefront user. Login is a local
// mock: nothing is verified, the record only remembers who signed in.
package session

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Key is the fixed storage key of the session record.
const Key = "e_services_user"

// GuestName is used when a login form is submitted without a name.
const GuestName = "Guest User"

// ErrNotFound is returned by a Repository when the key holds no value.
var ErrNotFound = errors.New("record not found")

// User is the persisted session.
type User struct {
	Name     string
	Email    string
	LoggedIn bool
}

// Repository is the key-value storage the session record lives in.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store saves, restores and clears the session record.
type Store struct {
	repo Repository
}

// NewStore returns a Store backed by repo.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Save writes u under Key.
func (s *Store) Save(ctx context.Context, u User) error {
	if err := s.repo.Put(ctx, Key, Encode(u)); err != nil {
		return errors.Wrap(err, "put session")
	}
	return nil
}

// Load returns the stored session. Missing, unreadable or logged-out records
// all yield false; Load never fails.
func (s *Store) Load(ctx context.Context) (User, bool) {
	raw, err := s.repo.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zctx.From(ctx).Warn("Session read failed", zap.Error(err))
		}
		return User{}, false
	}

	u, err := Decode(raw)
	if err != nil {
		zctx.From(ctx).Warn("Discarding malformed session record", zap.Error(err))
		return User{}, false
	}
	if !u.LoggedIn {
		return User{}, false
	}
	return u, true
}

// Clear removes the session record. Clearing an absent record is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, Key); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

// Login records a signed-in user. An empty name is stored as GuestName.
func (s *Store) Login(ctx context.Context, name, email string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = GuestName
	}
	u := User{Name: name, Email: strings.TrimSpace(email), LoggedIn: true}
	if err := s.Save(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Logout forgets the signed-in user.
func (s *Store) Logout(ctx context.Context) error {
	return s.Clear(ctx)
}
