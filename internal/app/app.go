package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/noshapp/nosh/internal/config"
	"github.com/noshapp/nosh/internal/prefs"
	"github.com/noshapp/nosh/internal/storage"
	"github.com/noshapp/nosh/internal/suggest"
	"github.com/noshapp/nosh/internal/tracker"
	"github.com/noshapp/nosh/internal/ui"
)

// Options configure the nosh application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nosh/prefs.toml
}

// Run boots the nosh TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := newLogger(cfg.LogPath())
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	var backing storage.Store
	dir, err := storage.OpenDir(cfg.DataDir)
	if err != nil {
		// The tracker still works without storage, nothing persists.
		logger.Warn("storage unavailable, state will not persist",
			slog.String("dir", cfg.DataDir), slog.String("error", err.Error()))
	} else {
		backing = dir
	}

	store := tracker.Open(backing, logger)

	if dir != nil {
		stop, err := watchDataDir(ctx, dir.Root(), store, logger)
		if err != nil {
			logger.Warn("data dir watcher unavailable", slog.String("error", err.Error()))
		} else {
			defer stop()
		}
	}

	uiOpts := ui.Options{
		Context:     ctx,
		Store:       store,
		Title:       cfg.Title,
		Suggestions: suggest.Load(cfg.Suggestions, logger),
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		Logger:      logger,
	}
	return ui.Run(uiOpts)
}

// newLogger routes diagnostics to a file in the data dir; the terminal
// belongs to the TUI. If the log file cannot be opened, diagnostics are
// dropped rather than scribbled over the interface.
func newLogger(path string) (*slog.Logger, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }
		}
	}
	return slog.New(slog.DiscardHandler), func() {}
}
