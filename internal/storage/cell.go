package storage

import (
	"encoding/json"
	"log/slog"
)

// Cell binds one typed in-memory value to one slot in a Store, with JSON
// as the wire format. Persistence is best-effort: every failure path logs
// a diagnostic and degrades to the caller-supplied default (on read) or
// leaves the previously persisted bytes untouched (on write). Callers
// never see an error from a Cell.
type Cell[T any] struct {
	store  Store
	key    string
	logger *slog.Logger
}

// NewCell binds key in store. A nil store is allowed and yields a
// memory-only cell: loads return the default, writes go nowhere.
func NewCell[T any](store Store, key string, logger *slog.Logger) *Cell[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cell[T]{store: store, key: key, logger: logger}
}

// Key returns the slot name this cell is bound to.
func (c *Cell[T]) Key() string {
	return c.key
}

// Load reads and decodes the slot. Missing slot, unavailable store, read
// failure, and undecodable bytes all yield def. Decoded values are
// returned as-is; schema validation belongs to the caller.
func (c *Cell[T]) Load(def T) T {
	if c.store == nil {
		return def
	}
	data, ok, err := c.store.Get(c.key)
	if err != nil {
		c.logger.Warn("storage read failed, using default",
			slog.String("key", c.key), slog.String("error", err.Error()))
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("storage decode failed, using default",
			slog.String("key", c.key), slog.String("error", err.Error()))
		return def
	}
	return v
}

// Write encodes v and stores it in the slot. Failures are logged, never
// returned; the previous slot contents survive a failed write.
func (c *Cell[T]) Write(v T) {
	if c.store == nil {
		c.logger.Warn("storage unavailable, value kept in memory only",
			slog.String("key", c.key))
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("storage encode failed",
			slog.String("key", c.key), slog.String("error", err.Error()))
		return
	}
	if err := c.store.Set(c.key, data); err != nil {
		c.logger.Warn("storage write failed",
			slog.String("key", c.key), slog.String("error", err.Error()))
	}
}
