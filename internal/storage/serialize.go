package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"time"
)

// JSON returns the message document
// {id, uuid, title, content, role, state, chat_id, user_id, created_at, updated_at}.
// Absent title, content and user_id are written as null.
func (m *ChatMessage) JSON() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, &SerializationError{Entity: "chat message", Err: err}
	}
	return b, nil
}

// ChatDocument is the JSON snapshot of a chat together with its messages
type ChatDocument struct {
	Title        string            `json:"title"`
	ID           int64             `json:"id"`
	UUID         uuid.UUID         `json:"uuid"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	ChatMessages []json.RawMessage `json:"chat_messages" ref:"ChatMessage"`
}

// NewChatDocument builds the chat snapshot, messages keep the given order.
// A message that can not be projected fails the whole document.
func NewChatDocument(c *Chat, messages []*ChatMessage) (*ChatDocument, error) {
	doc := &ChatDocument{
		Title:        c.Title,
		ID:           c.ID,
		UUID:         c.UUID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		ChatMessages: make([]json.RawMessage, 0, len(messages)),
	}

	for _, m := range messages {
		b, err := m.JSON()
		if err != nil {
			return nil, &SerializationError{Entity: fmt.Sprintf("chat (id: %d)", c.ID), Err: err}
		}
		doc.ChatMessages = append(doc.ChatMessages, b)
	}

	return doc, nil
}

// ChatDocument loads messages of c and builds its snapshot
func (s *Store) ChatDocument(ctx context.Context, c *Chat) (*ChatDocument, error) {
	messages, err := s.ChatMessages(ctx, c)
	if err != nil {
		return nil, err
	}
	return NewChatDocument(c, messages)
}

// ChatJSON returns the encoded snapshot of c with all of its messages
func (s *Store) ChatJSON(ctx context.Context, c *Chat) ([]byte, error) {
	doc, err := s.ChatDocument(ctx, c)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, &SerializationError{Entity: fmt.Sprintf("chat (id: %d)", c.ID), Err: err}
	}

	return b, nil
}
