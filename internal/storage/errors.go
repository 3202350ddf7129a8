package storage

import (
	"errors"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChatNotFound      = errors.New("chat not found")
	ErrMessageNotFound   = errors.New("chat message not found")
	ErrUserExists        = errors.New("user already exists")
	ErrUUIDTaken         = errors.New("uuid already taken")
	ErrAlreadyMember     = errors.New("user is already a chat member")
	ErrInvalidTransition = errors.New("invalid chat message state transition")
	ErrAuthorMismatch    = errors.New("only User messages have an author")
)

// constraint names declared in schema.sql
const (
	constraintUserUsername   = "user_username_key"
	constraintUserUUID       = "user_uuid_key"
	constraintChatUUID       = "chat_uuid_key"
	constraintMessageUUID    = "chat_message_uuid_key"
	constraintChatsUsersPK   = "chats_users_pkey"
	constraintChatsUsersChat = "chats_users_chat_id_fkey"
	constraintChatsUsersUser = "chats_users_user_id_fkey"
	constraintMessageChat    = "chat_message_chat_id_fkey"
	constraintMessageAuthor  = "chat_message_user_id_fkey"
	constraintAuthorRole     = "chat_message_author_check"
)

// StorageError wraps any error returned by the database driver.
// Reason is set when the failure is a known constraint violation, so callers can
// match it with errors.Is while still reaching the driver error with errors.As.
// Either of Err and Reason may be nil.
type StorageError struct {
	Op     string
	Err    error
	Reason error
}

func (e *StorageError) Error() string {
	msg := e.Op
	for _, err := range e.Unwrap() {
		msg += ": " + err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// storageError wraps err into StorageError and resolves its Reason from the PostgreSQL error code
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	se := &StorageError{Op: op, Err: err}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return se
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintUserUsername:
			se.Reason = ErrUserExists
		case constraintUserUUID, constraintChatUUID, constraintMessageUUID:
			se.Reason = ErrUUIDTaken
		case constraintChatsUsersPK:
			se.Reason = ErrAlreadyMember
		}
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintChatsUsersChat, constraintMessageChat:
			se.Reason = ErrChatNotFound
		case constraintChatsUsersUser, constraintMessageAuthor:
			se.Reason = ErrUserNotFound
		}
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == constraintAuthorRole {
			se.Reason = ErrAuthorMismatch
		}
	}

	return se
}

// SerializationError is returned when a JSON projection can not be built
type SerializationError struct {
	Entity string
	Err    error
}

func (e *SerializationError) Error() string {
	return "serialize " + e.Entity + ": " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TransitionError describes a rejected chat message state change
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return ErrInvalidTransition.Error() + " (" + e.From.String() + " -> " + e.To.String() + ")"
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// IsNotFound reports whether err means a user, chat or chat message does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrChatNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}
