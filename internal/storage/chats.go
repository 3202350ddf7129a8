package storage

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

const messageColumns = `chat_message.id, chat_message.uuid, chat_message.title, chat_message.content,
	chat_message.role, chat_message.state, chat_message.chat_id, chat_message.user_id,
	chat_message.created_at, chat_message.updated_at`

// CreateChat creates chat with provided title and relates it to every user in userIDs
func (s *Store) CreateChat(ctx context.Context, title string, userIDs ...int64) (*Chat, error) {
	c := &Chat{Title: title}
	if err := s.InsertChat(ctx, c, userIDs...); err != nil {
		return nil, err
	}
	return c, nil
}

// InsertChat performs two-step transaction to create chat
// (1. insert chat record; 2. bulk insert on "chats_users" table).
// An unknown user id rolls the whole chat back with ErrUserNotFound.
func (s *Store) InsertChat(ctx context.Context, c *Chat, userIDs ...int64) error {
	s.logger.Debugf("Creating chat (%s) with users (%v)", c.Title, userIDs)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storageError("create chat", err)
	}
	// error handling can be omitted for rollback according docs
	defer tx.Rollback(context.Background())

	created := *c
	s.stamp(&created, true)

	sql := "insert into chat (uuid, title, created_at, updated_at) values ($1, $2, $3, $4) returning id"
	err = tx.QueryRow(ctx, sql, uuidParam(created.UUID), created.Title, created.CreatedAt, created.UpdatedAt).Scan(&created.ID)
	if err != nil {
		return storageError("create chat", err)
	}

	if len(userIDs) > 0 {
		rows := memberships(created.ID, userIDs)
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"chats_users"}, chatsUsersColumns, copyFromMemberships(rows))
		if err != nil {
			return storageError("create chat", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return storageError("create chat", err)
	}

	*c = created

	s.logger.Debugf("Created chat (%s) with id %d", c.Title, c.ID)

	return nil
}

func (s *Store) findChat(ctx context.Context, op, where string, args ...interface{}) (*Chat, error) {
	sql := `select ` + chatColumns + ` from chat ` + where
	c, err := scanChat(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	return c, nil
}

// FindChat returns chat by id or nil if there is no such chat
func (s *Store) FindChat(ctx context.Context, id int64) (*Chat, error) {
	return s.findChat(ctx, "find chat", `where id = $1`, id)
}

// GetChat returns chat by id or ErrChatNotFound
func (s *Store) GetChat(ctx context.Context, id int64) (*Chat, error) {
	c, err := s.FindChat(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrChatNotFound
	}
	return c, nil
}

// FindChatByUUID returns chat by its external identifier or nil
func (s *Store) FindChatByUUID(ctx context.Context, id uuid.UUID) (*Chat, error) {
	return s.findChat(ctx, "find chat by uuid", `where uuid = $1`, uuidParam(id))
}

// GetChatByUUID returns chat by its external identifier or ErrChatNotFound
func (s *Store) GetChatByUUID(ctx context.Context, id uuid.UUID) (*Chat, error) {
	c, err := s.FindChatByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrChatNotFound
	}
	return c, nil
}

// UpdateChat writes c.Title and refreshes c.UpdatedAt
func (s *Store) UpdateChat(ctx context.Context, c *Chat) error {
	updated := *c
	s.stamp(&updated, false)

	sql := `update chat set title = $1, updated_at = $2 where id = $3`
	tag, err := s.db.Exec(ctx, sql, updated.Title, updated.UpdatedAt, updated.ID)
	if err != nil {
		return storageError("update chat", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChatNotFound
	}

	*c = updated

	return nil
}

// DeleteChat deletes chat by id and reports whether it existed.
// Its messages and memberships are removed by the database cascade.
func (s *Store) DeleteChat(ctx context.Context, id int64) (bool, error) {
	s.logger.Debugf("Deleting chat (id: %d)", id)

	tag, err := s.db.Exec(ctx, `delete from chat where id = $1`, id)
	if err != nil {
		return false, storageError("delete chat", err)
	}

	return tag.RowsAffected() > 0, nil
}

// AddChatUser relates an existing user to an existing chat
func (s *Store) AddChatUser(ctx context.Context, chatID, userID int64) (*ChatsUsers, error) {
	s.logger.Debugf("Adding user (id: %d) to chat (id: %d)", userID, chatID)

	sql := `insert into chats_users (chat_id, user_id) values ($1, $2)`
	if _, err := s.db.Exec(ctx, sql, chatID, userID); err != nil {
		return nil, storageError("add chat user", err)
	}

	return &ChatsUsers{ChatID: chatID, UserID: userID}, nil
}

// RemoveChatUser deletes the relation between chat and user, both records stay
func (s *Store) RemoveChatUser(ctx context.Context, chatID, userID int64) (bool, error) {
	sql := `delete from chats_users where chat_id = $1 and user_id = $2`
	tag, err := s.db.Exec(ctx, sql, chatID, userID)
	if err != nil {
		return false, storageError("remove chat user", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ChatUsers returns the users related to the chat ordered by id
func (s *Store) ChatUsers(ctx context.Context, c *Chat) ([]*User, error) {
	sql := `select ` + userColumns + `
			  from "user"
			  join chats_users
				on chats_users.user_id = "user".id
			 where chats_users.chat_id = $1
			 order by "user".id`

	rows, err := s.db.Query(ctx, sql, c.ID)
	if err != nil {
		return nil, storageError("list chat users", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageError("list chat users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list chat users", err)
	}

	return users, nil
}

// ChatMessages returns all messages of the chat in insertion order
func (s *Store) ChatMessages(ctx context.Context, c *Chat) ([]*ChatMessage, error) {
	s.logger.Debugf("Retrieving messages for chat (id: %d)", c.ID)

	messages, err := s.queryMessages(ctx, "list chat messages",
		`where chat_id = $1 order by id`, c.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("Retrieved %d messages", len(messages))

	return messages, nil
}

// CreateChatMessage appends a message to the chat.
//
// With authorUserID set the message is a Ready user message owned by that user,
// otherwise it is a Ready assistant message without an author.
// A non-nil state replaces the default Ready state in both cases.
func (s *Store) CreateChatMessage(ctx context.Context, c *Chat, content string, authorUserID *int64, state *State) (*ChatMessage, error) {
	m := &ChatMessage{
		Content: &content,
		Role:    RoleAssistant,
		State:   StateReady,
		ChatID:  c.ID,
	}
	if authorUserID != nil {
		id := *authorUserID
		m.Role = RoleUser
		m.UserID = &id
	}
	if state != nil {
		m.State = *state
	}

	if err := s.InsertMessage(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// DeleteAllMessages removes every message of the chat and returns how many were deleted
func (s *Store) DeleteAllMessages(ctx context.Context, c *Chat) (int64, error) {
	s.logger.Debugf("Deleting messages of chat (id: %d)", c.ID)

	tag, err := s.db.Exec(ctx, `delete from chat_message where chat_id = $1`, c.ID)
	if err != nil {
		return 0, storageError("delete chat messages", err)
	}

	return tag.RowsAffected(), nil
}
