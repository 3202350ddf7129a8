package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/caarlos0/env/v6"
	"github.com/jackc/pgx/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"io/fs"
	"llm-chat/internal/server"
	"llm-chat/internal/storage"
	"net/http"
	"os"
	"time"
)

type logConfig struct {
	Mode string `env:"LOG_MODE" envDefault:"development"`
}

// appConfig holds everything parsed from environment and flags
type appConfig struct {
	Log     logConfig
	Server  server.EnvConfig
	Storage storage.Config
}

// loadConfig reads optional .env file and parses environment variables.
// Explicitly set flags override parsed values.
func loadConfig(cmd *cobra.Command) (appConfig, error) {
	var cfg appConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("godotenv.Load: %w", err)
	}

	if err := env.Parse(&cfg.Log); err != nil {
		return cfg, fmt.Errorf("env.Parse log config: %w", err)
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return cfg, fmt.Errorf("env.Parse server config: %w", err)
	}
	if err := env.Parse(&cfg.Storage); err != nil {
		return cfg, fmt.Errorf("env.Parse storage config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("ip") {
		cfg.Server.Host, _ = flags.GetString("ip")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetUint16("port")
	}
	if flags.Changed("database-url") {
		cfg.Storage.URL, _ = flags.GetString("database-url")
	}
	if flags.Changed("log-mode") {
		cfg.Log.Mode, _ = flags.GetString("log-mode")
	}

	return cfg, nil
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// run builds logger and store, passes them to f and releases both afterwards
func run(cmd *cobra.Command, f func(ctx context.Context, cfg appConfig, sugar *zap.SugaredLogger, store *storage.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("zap logger: %w", err)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	ctx := cmd.Context()

	opts := []storage.Option{storage.ConnectionTimeout(30 * time.Second)}
	if cfg.Log.Mode != "production" {
		opts = append(opts, storage.LogLevel(pgx.LogLevelInfo))
	}

	store, err := storage.New(ctx, sugar, cfg.Storage, opts...)
	if err != nil {
		sugar.Errorf("Cannot create Store instance: %v", err)
		return err
	}

	return f(ctx, cfg, sugar, store)
}

func serve(ctx context.Context, cfg appConfig, sugar *zap.SugaredLogger, store *storage.Store) error {
	sugar.Info("Application is starting")

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return err
	}
	if _, err := store.Seed(ctx); err != nil {
		store.Close()
		return err
	}

	srv, err := server.NewServer(sugar, store,
		server.WithEnvConfig(cfg.Server),
		server.ReadTimeout(5*time.Second),
		server.TimeoutHandler(30*time.Second, server.DefaultStatusText().Text(http.StatusServiceUnavailable)),
		server.RegisterAfterShutdown(func() { sugar.Info("Application is stopping") }),
	)
	if err != nil {
		store.Close()
		return err
	}

	// Start closes the store after shutdown
	return srv.Start()
}

func migrate(ctx context.Context, _ appConfig, sugar *zap.SugaredLogger, store *storage.Store) error {
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	sugar.Info("Migration finished")

	return nil
}

func seed(ctx context.Context, _ appConfig, sugar *zap.SugaredLogger, store *storage.Store) error {
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	seeded, err := store.Seed(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		sugar.Info("Database already has users, nothing to seed")
	}

	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "llm-chat",
		Short:        "Chat persistence service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, serve)
		},
	}

	pf := root.PersistentFlags()
	pf.String("ip", "127.0.0.1", "address to listen on (HOST)")
	pf.Uint16("port", 8080, "port to listen on (PORT)")
	pf.String("database-url", "", "PostgreSQL connection URL (DATABASE_URL)")
	pf.String("log-mode", "development", "development or production (LOG_MODE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Apply schema and start HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, serve)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables and indexes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, migrate)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Create test_user with test_chat when there are no users",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, seed)
			},
		},
	)

	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
