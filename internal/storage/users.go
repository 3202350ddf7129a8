package storage

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

const userColumns = `"user".id, "user".uuid, "user".username, "user".created_at, "user".updated_at`

const chatColumns = `chat.id, chat.uuid, chat.title, chat.created_at, chat.updated_at`

// CreateUser creates user with provided username and returns the stored row
func (s *Store) CreateUser(ctx context.Context, username string) (*User, error) {
	u := &User{Username: username}
	if err := s.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// InsertUser stamps u and inserts it, u.ID is filled from the database.
// A UUID already set on u is kept. u is left untouched when the insert fails.
func (s *Store) InsertUser(ctx context.Context, u *User) error {
	s.logger.Debugf("Creating user (%s)", u.Username)

	created := *u
	s.stamp(&created, true)

	sql := `insert into "user" (uuid, username, created_at, updated_at) values ($1, $2, $3, $4) returning id`
	err := s.db.QueryRow(ctx, sql, uuidParam(created.UUID), created.Username, created.CreatedAt, created.UpdatedAt).Scan(&created.ID)
	if err != nil {
		return storageError("create user", err)
	}

	*u = created

	s.logger.Debugf("Created user (%s) with id %d", u.Username, u.ID)

	return nil
}

func (s *Store) findUser(ctx context.Context, op, where string, args ...interface{}) (*User, error) {
	sql := `select ` + userColumns + ` from "user" ` + where
	u, err := scanUser(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	return u, nil
}

// FindUser returns user by id or nil if there is no such user
func (s *Store) FindUser(ctx context.Context, id int64) (*User, error) {
	return s.findUser(ctx, "find user", `where id = $1`, id)
}

// GetUser returns user by id or ErrUserNotFound
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindUserByUUID returns user by its external identifier or nil
func (s *Store) FindUserByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findUser(ctx, "find user by uuid", `where uuid = $1`, uuidParam(id))
}

// GetUserByUUID returns user by its external identifier or ErrUserNotFound
func (s *Store) GetUserByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.FindUserByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FirstUser returns the user with the lowest id.
// It stands in for the authenticated user in a single-tenant deployment.
func (s *Store) FirstUser(ctx context.Context) (*User, error) {
	u, err := s.findUser(ctx, "find first user", `order by id asc limit 1`)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateUser writes u.Username and refreshes u.UpdatedAt
func (s *Store) UpdateUser(ctx context.Context, u *User) error {
	updated := *u
	s.stamp(&updated, false)

	sql := `update "user" set username = $1, updated_at = $2 where id = $3`
	tag, err := s.db.Exec(ctx, sql, updated.Username, updated.UpdatedAt, updated.ID)
	if err != nil {
		return storageError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	*u = updated

	return nil
}

// DeleteUser deletes user by id and reports whether it existed.
// Chat memberships and messages authored by the user are removed by the database cascade.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.logger.Debugf("Deleting user (id: %d)", id)

	tag, err := s.db.Exec(ctx, `delete from "user" where id = $1`, id)
	if err != nil {
		return false, storageError("delete user", err)
	}

	return tag.RowsAffected() > 0, nil
}

// userChat selects a single chat related to the user through chats_users
func (s *Store) userChat(ctx context.Context, op string, userID int64, filter, order string, args ...interface{}) (*Chat, error) {
	sql := `select ` + chatColumns + `
			  from chat
			  join chats_users
				on chats_users.chat_id = chat.id
			 where chats_users.user_id = $1 ` + filter + `
			 order by ` + order + `
			 limit 1`

	c, err := scanChat(s.db.QueryRow(ctx, sql, append([]interface{}{userID}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, storageError(op, err)
	}
	return c, nil
}

// DefaultChat returns the earliest created chat of the user or ErrChatNotFound
func (s *Store) DefaultChat(ctx context.Context, u *User) (*Chat, error) {
	return s.userChat(ctx, "find default chat", u.ID, "", "chat.created_at asc, chat.id asc")
}

// ChatByUUID returns the chat with provided uuid only if it is related to the user.
// A chat that exists but belongs to other users results in ErrChatNotFound.
func (s *Store) ChatByUUID(ctx context.Context, u *User, id uuid.UUID) (*Chat, error) {
	return s.userChat(ctx, "find user chat by uuid", u.ID, "and chat.uuid = $2", "chat.id asc", uuidParam(id))
}

// UserChats returns all chats related to the user, latest first
func (s *Store) UserChats(ctx context.Context, u *User) ([]*Chat, error) {
	s.logger.Debugf("Retrieving chats for user (id: %d)", u.ID)

	sql := `select ` + chatColumns + `
			  from chat
			  join chats_users
				on chats_users.chat_id = chat.id
			 where chats_users.user_id = $1
			 order by chat.created_at desc, chat.id desc`

	rows, err := s.db.Query(ctx, sql, u.ID)
	if err != nil {
		return nil, storageError("list user chats", err)
	}
	defer rows.Close()

	chats := []*Chat{}
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, storageError("list user chats", err)
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list user chats", err)
	}

	s.logger.Debugf("Retrieved %d chats", len(chats))

	return chats, nil
}
