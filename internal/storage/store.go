package storage

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
	"llm-chat/internal/storage/zapadapter"
	"time"
)

// Store defines fields used in db interaction processes
type Store struct {
	logger *zap.SugaredLogger
	db     *pgxpool.Pool
	now    func() time.Time
}

// New connects pgxpool.Pool described by cfg, routes its logs to logger via zapadapter
// and returns instance of Store struct
func New(ctx context.Context, logger *zap.SugaredLogger, cfg Config, opts ...Option) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolConfig.ConnConfig.Logger = zapadapter.NewLogger(logger.Desugar())
	poolConfig.ConnConfig.LogLevel = pgx.LogLevelWarn

	o := &options{
		pool:  poolConfig,
		clock: defaultClock,
	}
	for _, opt := range opts {
		opt.apply(o)
	}

	pool, err := pgxpool.ConnectConfig(ctx, o.pool)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ConnectConfig: %w", err)
	}

	return &Store{
		logger: logger,
		db:     pool,
		now:    o.clock,
	}, nil
}

// Ping checks that a connection can be acquired and used
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return storageError("ping", err)
	}
	defer conn.Release()

	return storageError("ping", conn.Conn().Ping(ctx))
}

// Close closes all pool connections
func (s *Store) Close() {
	s.db.Close()
}

// scanUser reads a user row, pgx.Rows can be passed as well
func scanUser(row pgx.Row) (*User, error) {
	var (
		u  User
		id pgtype.UUID
	)
	if err := row.Scan(&u.ID, &id, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.UUID = uuid.UUID(id.Bytes)
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	return &u, nil
}

func scanChat(row pgx.Row) (*Chat, error) {
	var (
		c  Chat
		id pgtype.UUID
	)
	if err := row.Scan(&c.ID, &id, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.UUID = uuid.UUID(id.Bytes)
	c.CreatedAt, c.UpdatedAt = c.CreatedAt.UTC(), c.UpdatedAt.UTC()
	return &c, nil
}

func scanMessage(row pgx.Row) (*ChatMessage, error) {
	var (
		m              ChatMessage
		id             pgtype.UUID
		title, content pgtype.Text
		role, state    string
		userID         pgtype.Int8
	)
	err := row.Scan(&m.ID, &id, &title, &content, &role, &state, &m.ChatID, &userID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if m.Role, err = ParseRole(role); err != nil {
		return nil, err
	}
	if m.State, err = ParseState(state); err != nil {
		return nil, err
	}

	m.UUID = uuid.UUID(id.Bytes)
	m.Title = textValue(title)
	m.Content = textValue(content)
	m.UserID = int8Value(userID)
	m.CreatedAt, m.UpdatedAt = m.CreatedAt.UTC(), m.UpdatedAt.UTC()

	return &m, nil
}

func uuidParam(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Status: pgtype.Present}
}

func textParam(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: *s, Status: pgtype.Present}
}

func int8Param(i *int64) pgtype.Int8 {
	if i == nil {
		return pgtype.Int8{Status: pgtype.Null}
	}
	return pgtype.Int8{Int: *i, Status: pgtype.Present}
}

func textValue(t pgtype.Text) *string {
	if t.Status != pgtype.Present {
		return nil
	}
	s := t.String
	return &s
}

func int8Value(i pgtype.Int8) *int64 {
	if i.Status != pgtype.Present {
		return nil
	}
	v := i.Int
	return &v
}
