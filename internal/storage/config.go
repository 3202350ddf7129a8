package storage

import (
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"strconv"
	"time"
)

// Config defines fields used for connecting to PostgreSQL, parsed from environment variables
type Config struct {
	URL      string `env:"DATABASE_URL"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     uint16 `env:"DB_PORT" envDefault:"5432"`
	DBName   string `env:"DB_NAME" envDefault:"chat"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN returns connection string for pgxpool.ParseConfig
// URL takes precedence over separate fields when set
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return "user=" + c.User +
		" password=" + c.Password +
		" host=" + c.Host +
		" port=" + strconv.FormatUint(uint64(c.Port), 10) +
		" dbname=" + c.DBName +
		" sslmode=" + sslMode
}

// Option alters the default configuration used during new Store construction
type Option interface {
	apply(*options)
}

type optionFunc func(o *options)

func (f optionFunc) apply(o *options) { f(o) }

type options struct {
	pool  *pgxpool.Config
	clock func() time.Time
}

// ConnectionTimeout sets timeout for connection to be established
func ConnectionTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.pool.ConnConfig.ConnectTimeout = d
	})
}

// MaxConns limits the number of connections held by the pool
func MaxConns(n int32) Option {
	return optionFunc(func(o *options) {
		o.pool.MaxConns = n
	})
}

// LogLevel sets minimal pgx level passed to the zap logger
func LogLevel(l pgx.LogLevel) Option {
	return optionFunc(func(o *options) {
		o.pool.ConnConfig.LogLevel = l
	})
}

// WithClock replaces the source of created_at/updated_at values
func WithClock(now func() time.Time) Option {
	return optionFunc(func(o *options) {
		o.clock = now
	})
}
