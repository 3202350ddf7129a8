package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

const defaultMessagesLimit = 100

// InsertMessage stamps m and inserts it, m.ID is filled from the database.
// Only User messages carry UserID, a mismatch is rejected with ErrAuthorMismatch.
// Unknown chat or author ids result in ErrChatNotFound or ErrUserNotFound reasons.
// m is left untouched when the insert fails.
func (s *Store) InsertMessage(ctx context.Context, m *ChatMessage) error {
	if !m.Role.Valid() {
		return fmt.Errorf("create chat message: unknown role %q", m.Role)
	}
	if !m.State.Valid() {
		return fmt.Errorf("create chat message: unknown state %q", m.State)
	}
	if (m.Role == RoleUser) != (m.UserID != nil) {
		return &StorageError{Op: "create chat message", Reason: ErrAuthorMismatch}
	}

	s.logger.Debugf("Creating %s message in chat (id: %d)", m.Role, m.ChatID)

	created := *m
	s.stamp(&created, true)

	sql := `insert into chat_message (uuid, title, content, role, state, chat_id, user_id, created_at, updated_at)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			returning id`
	err := s.db.QueryRow(ctx, sql,
		uuidParam(created.UUID),
		textParam(created.Title),
		textParam(created.Content),
		string(created.Role),
		string(created.State),
		created.ChatID,
		int8Param(created.UserID),
		created.CreatedAt,
		created.UpdatedAt,
	).Scan(&created.ID)
	if err != nil {
		return storageError("create chat message", err)
	}

	*m = created

	s.logger.Debugf("Created message with id %d in state %s", m.ID, m.State)

	return nil
}

func (s *Store) queryMessages(ctx context.Context, op, where string, args ...interface{}) ([]*ChatMessage, error) {
	rows, err := s.db.Query(ctx, `select `+messageColumns+` from chat_message `+where, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	messages := []*ChatMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, storageError(op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}

	return messages, nil
}

func (s *Store) findMessage(ctx context.Context, op, where string, args ...interface{}) (*ChatMessage, error) {
	m, err := scanMessage(s.db.QueryRow(ctx, `select `+messageColumns+` from chat_message `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	return m, nil
}

// FindMessage returns chat message by id or nil if there is no such message
func (s *Store) FindMessage(ctx context.Context, id int64) (*ChatMessage, error) {
	return s.findMessage(ctx, "find chat message", `where id = $1`, id)
}

// GetMessage returns chat message by id or ErrMessageNotFound
func (s *Store) GetMessage(ctx context.Context, id int64) (*ChatMessage, error) {
	m, err := s.FindMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// FindMessageByUUID returns chat message by its external identifier or nil
func (s *Store) FindMessageByUUID(ctx context.Context, id uuid.UUID) (*ChatMessage, error) {
	return s.findMessage(ctx, "find chat message by uuid", `where uuid = $1`, uuidParam(id))
}

// GetMessageByUUID returns chat message by its external identifier or ErrMessageNotFound
func (s *Store) GetMessageByUUID(ctx context.Context, id uuid.UUID) (*ChatMessage, error) {
	m, err := s.FindMessageByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// MessagesByState returns up to limit messages in the given state, oldest first.
// A non-positive limit falls back to 100.
func (s *Store) MessagesByState(ctx context.Context, state State, limit int) ([]*ChatMessage, error) {
	if limit <= 0 {
		limit = defaultMessagesLimit
	}
	return s.queryMessages(ctx, "list chat messages by state",
		`where state = $1 order by created_at asc, id asc limit $2`, string(state), limit)
}

// UserMessages returns every message authored by the user in insertion order
func (s *Store) UserMessages(ctx context.Context, u *User) ([]*ChatMessage, error) {
	return s.queryMessages(ctx, "list user messages", `where user_id = $1 order by id`, u.ID)
}

// DeleteMessage deletes chat message by id and reports whether it existed
func (s *Store) DeleteMessage(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `delete from chat_message where id = $1`, id)
	if err != nil {
		return false, storageError("delete chat message", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateMessageTitle sets or clears the title of m
func (s *Store) UpdateMessageTitle(ctx context.Context, m *ChatMessage, title *string) error {
	updated := *m
	updated.Title = title
	s.stamp(&updated, false)

	sql := `update chat_message set title = $1, updated_at = $2 where id = $3`
	tag, err := s.db.Exec(ctx, sql, textParam(updated.Title), updated.UpdatedAt, updated.ID)
	if err != nil {
		return storageError("update chat message title", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}

	*m = updated

	return nil
}

// TransitionMessage moves m from its current state to the given one.
//
// The update only applies while the stored state still equals m.State, so two callers racing
// on the same message can not both succeed. A nil content keeps the stored content.
// On success m reflects the stored row.
func (s *Store) TransitionMessage(ctx context.Context, m *ChatMessage, to State, content *string) error {
	if !m.State.CanTransition(to) {
		return &TransitionError{From: m.State, To: to}
	}

	s.logger.Debugf("Moving message (id: %d) from %s to %s", m.ID, m.State, to)

	updated := *m
	s.stamp(&updated, false)

	sql := `update chat_message
			   set state = $1, content = coalesce($2, content), updated_at = $3
			 where id = $4 and state = $5
			returning ` + messageColumns

	stored, err := scanMessage(s.db.QueryRow(ctx, sql,
		string(to),
		textParam(content),
		updated.UpdatedAt,
		m.ID,
		string(m.State),
	))
	if err == nil {
		*m = *stored
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return storageError("transition chat message", err)
	}

	actual, err := s.FindMessage(ctx, m.ID)
	if err != nil {
		return err
	}
	if actual == nil {
		return ErrMessageNotFound
	}

	return &TransitionError{From: actual.State, To: to}
}

// StartMessage marks a pending message as being generated
func (s *Store) StartMessage(ctx context.Context, m *ChatMessage) error {
	return s.TransitionMessage(ctx, m, StateLoading, nil)
}

// CompleteMessage stores the generated content and marks the message ready
func (s *Store) CompleteMessage(ctx context.Context, m *ChatMessage, content string) error {
	return s.TransitionMessage(ctx, m, StateReady, &content)
}

// FailMessage marks the message as failed, detail replaces the content when set
func (s *Store) FailMessage(ctx context.Context, m *ChatMessage, detail *string) error {
	return s.TransitionMessage(ctx, m, StateError, detail)
}
