package storage

import (
	"context"
	_ "embed"
	"errors"
)

//go:embed schema.sql
var schema string

// Migrate creates missing tables and indexes, it is safe to call on every start
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Info("Applying database schema")

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return storageError("migrate", err)
	}

	s.logger.Info("Database schema is up to date")

	return nil
}

// Seed creates "test_user" with a single "test_chat" when there are no users yet.
// It reports whether anything was inserted.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	_, err := s.FirstUser(ctx)
	if err == nil {
		s.logger.Debug("Users exist, skipping seed")
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}

	// another instance may seed between the check and the insert
	user, err := s.CreateUser(ctx, "test_user")
	if errors.Is(err, ErrUserExists) {
		s.logger.Debug("User test_user exists, skipping seed")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := s.CreateChat(ctx, "test_chat", user.ID); err != nil {
		return false, err
	}

	s.logger.Infof("Seeded user (id: %d) with a default chat", user.ID)

	return true, nil
}
