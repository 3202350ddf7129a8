package storage

// User is an account record, it owns chats through chats_users
type User struct {
	Record
	Username string `json:"username"`
}

// Chat groups chat messages and is shared by zero or more users
type Chat struct {
	Record
	Title string `json:"title"`
}

// ChatsUsers is a row of the chats_users junction table
type ChatsUsers struct {
	ChatID int64 `json:"chat_id"`
	UserID int64 `json:"user_id"`
}

// ChatMessage is a single message inside a chat.
// UserID is set only for messages authored by a user (Role == RoleUser).
type ChatMessage struct {
	Record
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Role    Role    `json:"role"`
	State   State   `json:"state"`
	ChatID  int64   `json:"chat_id"`
	UserID  *int64  `json:"user_id"`
}
