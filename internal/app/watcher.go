package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/noshapp/nosh/internal/tracker"
)

// reloadDebounce is how long to wait for more filesystem events before
// reloading. Writes arrive as short bursts (temp file, rename).
const reloadDebounce = 250 * time.Millisecond

// watchDataDir reloads the store when the persisted slots change
// underneath the running app, e.g. when the data files are edited or
// deleted externally. The store's own writes also surface here; Reload
// compares against memory and stays quiet when nothing changed.
func watchDataDir(ctx context.Context, dir string, store *tracker.Store, logger *slog.Logger) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var (
			timer   *time.Timer
			timerCh <-chan time.Time
		)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isSlotEvent(ev) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(reloadDebounce)
				timerCh = timer.C
			case <-timerCh:
				timer = nil
				timerCh = nil
				logger.Debug("data dir changed, reloading state")
				store.Reload()
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("data dir watch error", slog.String("error", werr.Error()))
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}

// isSlotEvent filters to the persisted slot files, skipping the hidden
// temp files the store writes through.
func isSlotEvent(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
