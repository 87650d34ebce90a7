// Package pebblestore keeps the session record in an on-disk Pebble database
// so a signed-in user survives restarts.
package pebblestore

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/go-faster/errors"

	"github.com/xenking/eservices-storefront/internal/domain/session"
)

var _ session.Repository = (*Store)(nil)

// Store implements session.Repository on top of Pebble. Every write is synced.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %q", dir)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns a copy of the value under key or session.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %q", key)
	}
	defer func() { _ = closer.Close() }()

	return append([]byte(nil), v...), nil
}

// Put stores value under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

// Delete removes key. Pebble treats deleting a missing key as success.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

// Ping reports whether the database can serve reads.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.Get(ctx, session.Key); err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}
	return nil
}
