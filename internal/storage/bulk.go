package storage

import "github.com/jackc/pgx/v4"

var chatsUsersColumns = []string{"chat_id", "user_id"}

type membershipBulk struct {
	rows []ChatsUsers
	idx  int
}

func (cu ChatsUsers) toInterface() []interface{} {
	return []interface{}{cu.ChatID, cu.UserID}
}

// memberships builds chats_users rows relating chatID to every user in userIDs
func memberships(chatID int64, userIDs []int64) []ChatsUsers {
	rows := make([]ChatsUsers, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, ChatsUsers{ChatID: chatID, UserID: userID})
	}
	return rows
}

func copyFromMemberships(rows []ChatsUsers) pgx.CopyFromSource {
	return &membershipBulk{
		rows: rows,
		idx:  -1,
	}
}

func (mb *membershipBulk) Next() bool {
	mb.idx++
	return mb.idx < len(mb.rows)
}

func (mb *membershipBulk) Values() ([]interface{}, error) {
	return mb.rows[mb.idx].toInterface(), nil
}

func (mb *membershipBulk) Err() error {
	return nil
}
