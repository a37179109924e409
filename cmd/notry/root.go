package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marcus/notry/internal/app"
	"github.com/marcus/notry/internal/config"
	"github.com/marcus/notry/internal/keymap"
	"github.com/marcus/notry/internal/notes"
	"github.com/marcus/notry/internal/state"
)

var (
	configPath string
	dbPath     string
	driver     string
	seedCount  int
	resetDB    bool
	debug      bool

	cfg *config.Config
)

// rootCmd runs the TUI when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "notry",
	Short: "A terminal note store with search, marking, import and export",
	Long: `notry keeps notes in a local SQLite database. Type to search, Enter to
edit or create, Space to mark, F2 to import files and F3 to export marked notes.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("db") {
			cfg.Storage.Path = config.ExpandPath(dbPath)
		}
		if cmd.Flags().Changed("driver") {
			cfg.Storage.Driver = driver
		}
		return cfg.Validate()
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "notry.db", "path to the note database")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", notes.DriverPure, "SQLite driver: sqlite (pure Go) or sqlite3 (cgo)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&seedCount, "seed", 0, "insert N demo notes when the database is empty")
	rootCmd.Flags().BoolVar(&resetDB, "reset", false, "delete the database before opening it")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// openStore opens the configured database.
func openStore() (*notes.Store, error) {
	return notes.Open(cfg.Storage.Path, notes.Options{
		Driver: cfg.Storage.Driver,
		Logger: slog.Default(),
	})
}

// removeDatabase deletes the database file and its SQLite side files. A
// missing file is not an error.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// seedIfEmpty inserts n demo notes into an empty store.
func seedIfEmpty(ctx context.Context, store *notes.Store, n int) (bool, error) {
	if n <= 0 {
		return false, nil
	}
	count, err := store.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, store.Seed(ctx, n)
}

// fileLogger logs to the configured file, tagged with a per-run session id.
// The TUI owns the terminal, so nothing may be written to stderr while it
// runs.
func fileLogger(path string) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString())
	return logger, f, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if resetDB {
		if err := removeDatabase(cfg.Storage.Path); err != nil {
			return &exitError{code: 2, err: fmt.Errorf("reset database: %w", err)}
		}
	}

	logger, closer, err := fileLogger(cfg.Log.File)
	if err != nil {
		slog.Warn("log file unavailable, logging disabled", "path", cfg.Log.File, "error", err)
		logger, closer = slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	store, err := openStore()
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("open storage: %w", err)}
	}
	defer store.Close()

	if seeded, err := seedIfEmpty(ctx, store, seedCount); err != nil {
		return &exitError{code: 1, err: fmt.Errorf("seed: %w", err)}
	} else if seeded {
		logger.Info("seeded demo notes", "count", seedCount)
	}

	// Load persistent state (ignore errors - state is optional)
	_ = state.Init()

	keys, err := keymap.New(cfg.Keymap.Overrides)
	if err != nil {
		logger.Warn("keymap overrides ignored", "error", err)
	}

	logger.Info("starting", "db", cfg.Storage.Path, "driver", cfg.Storage.Driver, "version", effectiveVersion(Version))
	model := app.New(app.Options{
		Context: ctx,
		Store:   store,
		Config:  cfg,
		Keys:    keys,
		Logger:  logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
