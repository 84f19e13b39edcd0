package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/taskmaster/boards/internal/adapters/cache"
	"github.com/taskmaster/boards/internal/adapters/repository"
	"github.com/taskmaster/boards/internal/application/services"
	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/config"
	"github.com/taskmaster/boards/internal/infrastructure/database"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
	"github.com/taskmaster/boards/internal/infrastructure/metrics"
	"github.com/taskmaster/boards/internal/infrastructure/server"
	"github.com/taskmaster/boards/internal/ports"
)

const migrationsSource = "file://migrations"

// Version is overridden at build time with -ldflags.
var Version = "dev"

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Boards API server",
		Long:  "Start the Boards API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Run up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return runMigration(cmd, "up", steps)
		},
	}
	upCmd.Flags().Int("steps", 0, "Number of migrations to apply (0 applies all)")

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Run down migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return runMigration(cmd, "down", steps)
		},
	}
	downCmd.Flags().Int("steps", 0, "Number of migrations to revert (0 reverts all)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd)
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

// NewBoardCommand creates operator commands that run engine operations
// directly against the configured store.
func NewBoardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Board maintenance commands",
	}

	templateCmd := &cobra.Command{
		Use:   "template <board-id>",
		Short: "Create a template from a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID, creator, err := boardArgs(cmd, args[0], "creator")
			if err != nil {
				return err
			}
			return withBoardService(cmd.Context(), func(ctx context.Context, svc *services.BoardService) error {
				tpl, err := svc.CreateTemplate(ctx, creator, boardID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Template created: %s (%d lists)\n", tpl.ID, len(tpl.Lists))
				return nil
			})
		},
	}
	templateCmd.Flags().String("creator", "", "User ID that will own the template (required)")

	copyCmd := &cobra.Command{
		Use:   "copy <board-id>",
		Short: "Copy a board or instantiate a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardID, copier, err := boardArgs(cmd, args[0], "copier")
			if err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			return withBoardService(cmd.Context(), func(ctx context.Context, svc *services.BoardService) error {
				b, err := svc.CopyBoard(ctx, copier, boardID, ports.CopyBoardRequest{Title: title})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Board copied: %s %q\n", b.ID, b.Title)
				return nil
			})
		},
	}
	copyCmd.Flags().String("copier", "", "User ID that will own the copy (required)")
	copyCmd.Flags().String("title", "", "Title of the copy (defaults to the source title)")

	boardCmd.AddCommand(templateCmd, copyCmd)
	return boardCmd
}

// NewTokenCommand creates the token command. Tokens are normally minted by
// the directory; this is for operators and local development.
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Actor token commands",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("user")
			userID, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			token, err := services.NewAuthService(cfg.JWT, logger.NewNop()).IssueToken(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().String("user", "", "User ID (required)")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Boards version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Boards %s\n", Version)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	deps, cleanup, err := buildDeps(cfg, appLogger)
	if err != nil {
		appLogger.Errorw("Failed to initialize dependencies", "error", err)
		return err
	}
	defer cleanup()

	srv, err := server.New(cfg, deps, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	appLogger.Infow("Starting Boards API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Enabled,
	)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildDeps wires the store, cache and metrics selected by cfg.
func buildDeps(cfg *config.Config, appLogger *logger.Logger) (server.Deps, func(), error) {
	var (
		deps    server.Deps
		closers []func() error
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				appLogger.Warnw("Cleanup failed", "error", err)
			}
		}
	}

	store, db, err := openStore(cfg, appLogger)
	if err != nil {
		return deps, cleanup, err
	}
	if db != nil {
		closers = append(closers, db.Close)
	}

	var boardCache ports.BoardCache
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.GetAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 3,
		})
		closers = append(closers, client.Close)

		rc := cache.NewRedisBoardCache(client, cfg.Cache.TTL, cfg.Cache.KeyPrefix, appLogger)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			appLogger.Warnw("Board cache unavailable, reads fall through to the store", "addr", cfg.Redis.GetAddr(), "error", err)
		}
		cancel()
		boardCache = rc
		deps.Cache = rc
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps.Boards = services.NewBoardService(store, boardCache, metrics.NewEngineMetrics(registry), appLogger)
	deps.Store = store
	deps.DB = db
	deps.Auth = services.NewAuthService(cfg.JWT, appLogger)
	deps.Registry = registry
	return deps, cleanup, nil
}

func openStore(cfg *config.Config, appLogger *logger.Logger) (ports.BoardStore, *database.DB, error) {
	switch cfg.Store.Driver {
	case "memory":
		if cfg.App.IsProduction() {
			return nil, nil, fmt.Errorf("the memory store cannot be used in production")
		}
		appLogger.Warn("Using in-memory board store, data is lost on restart")
		return repository.NewMemoryStore(), nil, nil
	case "postgres":
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewPostgresStore(db, appLogger), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// withBoardService runs fn against a board service built from configuration.
func withBoardService(ctx context.Context, fn func(context.Context, *services.BoardService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	store, db, err := openStore(cfg, appLogger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, services.NewBoardService(store, nil, nil, appLogger))
}

func boardArgs(cmd *cobra.Command, rawBoard, userFlag string) (uuid.UUID, entities.UserRef, error) {
	boardID, err := uuid.Parse(rawBoard)
	if err != nil {
		return uuid.Nil, entities.UserRef{}, fmt.Errorf("invalid board id: %w", err)
	}
	raw, _ := cmd.Flags().GetString(userFlag)
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, entities.UserRef{}, fmt.Errorf("invalid --%s: %w", userFlag, err)
	}
	return boardID, entities.UserRef{ID: userID}, nil
}

func newMigrator() (*migrate.Migrate, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsSource, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, db, nil
}

func runMigration(cmd *cobra.Command, direction string, steps int) error {
	m, db, err := newMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion(cmd *cobra.Command) error {
	m, db, err := newMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
	return nil
}
