package tracker

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/noshapp/nosh/internal/storage"
)

const (
	goalKey = "goal"
	logKey  = "log"
)

// DefaultGoal is the daily calorie goal used when nothing has been
// persisted yet.
const DefaultGoal = 2000

// Entry is one logged food item. Entries are created only by AddEntry,
// never mutated afterwards, and removed only by ID.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Snapshot is an immutable view of tracker state at a point in time.
type Snapshot struct {
	Goal    int
	Entries []Entry
}

// Consumed returns the total calories across all logged entries.
func (s Snapshot) Consumed() int {
	total := 0
	for _, e := range s.Entries {
		total += e.Calories
	}
	return total
}

// Remaining returns the calories left before the goal is reached.
// Negative means the goal has been exceeded.
func (s Snapshot) Remaining() int {
	return s.Goal - s.Consumed()
}

// Store is the authoritative holder of the goal and the food log. Each
// value is backed by a persistent cell; every successful mutation writes
// the touched slot through. Invalid input never mutates state: the
// operation is a no-op and a diagnostic is logged.
type Store struct {
	mu      sync.RWMutex
	goal    int
	entries []Entry

	goalCell *storage.Cell[int]
	logCell  *storage.Cell[[]Entry]
	logger   *slog.Logger

	obsMu     sync.Mutex
	observers []func()
}

// Open builds a Store bound to st, reading both slots and falling back
// to the documented defaults (goal 2000, empty log). st may be nil, in
// which case the store runs memory-only.
func Open(st storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		goalCell: storage.NewCell[int](st, goalKey, logger),
		logCell:  storage.NewCell[[]Entry](st, logKey, logger),
		logger:   logger,
	}
	s.goal, s.entries = s.loadSlots()
	return s
}

func (s *Store) loadSlots() (int, []Entry) {
	goal := s.goalCell.Load(DefaultGoal)
	if goal <= 0 {
		// The cell decodes whatever JSON is in the slot; a zero or
		// negative goal violates the store's own invariant.
		s.logger.Warn("persisted goal out of range, using default",
			slog.Int("goal", goal), slog.Int("default", DefaultGoal))
		goal = DefaultGoal
	}
	return goal, s.logCell.Load(nil)
}

// Subscribe registers fn to run after every successful mutation and
// after every reload that changed state. Callbacks run synchronously on
// the mutating goroutine and must not call back into the store's
// mutation operations.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.obsMu.Lock()
	s.observers = append(s.observers, fn)
	s.obsMu.Unlock()
}

func (s *Store) notify() {
	s.obsMu.Lock()
	obs := slices.Clone(s.observers)
	s.obsMu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// Snapshot returns a defensive copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Goal:    s.goal,
		Entries: slices.Clone(s.entries),
	}
}

// SetGoal replaces the daily goal with the integer part of candidate.
// NaN, infinities, and values at or below zero (including fractions that
// truncate to zero) are rejected without touching state. Reports whether
// the goal changed.
func (s *Store) SetGoal(candidate float64) bool {
	if !IsPositiveNumber(candidate) {
		s.logger.Warn("rejected goal: not a positive number",
			slog.Float64("candidate", candidate))
		return false
	}
	goal := int(candidate)
	if goal <= 0 {
		s.logger.Warn("rejected goal: truncates to zero",
			slog.Float64("candidate", candidate))
		return false
	}

	s.mu.Lock()
	s.goal = goal
	s.goalCell.Write(goal)
	s.mu.Unlock()

	s.notify()
	return true
}

// AddEntry validates name and calories, and on success appends a new
// entry with a freshly generated ID to the end of the log. The stored
// name is the trimmed input; the stored calories are the integer part of
// the input, and values too large to represent as an int are rejected.
// Returns the created entry and whether the log changed.
func (s *Store) AddEntry(name string, calories float64) (Entry, bool) {
	if !IsNonEmptyString(name) {
		s.logger.Warn("rejected entry: empty name")
		return Entry{}, false
	}
	trimmed := strings.TrimSpace(name)
	if !IsCalorieCount(calories) {
		s.logger.Warn("rejected entry: bad calorie count",
			slog.String("name", trimmed), slog.Float64("calories", calories))
		return Entry{}, false
	}

	cal := int(calories)
	if cal < 0 {
		// Conversion is unspecified for floats beyond the int range; a
		// huge input can come back negative.
		s.logger.Warn("rejected entry: calorie count out of range",
			slog.String("name", trimmed), slog.Float64("calories", calories))
		return Entry{}, false
	}

	entry := Entry{
		ID:       uuid.NewString(),
		Name:     trimmed,
		Calories: cal,
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.logCell.Write(slices.Clone(s.entries))
	s.mu.Unlock()

	s.notify()
	return entry, true
}

// RemoveEntry removes the first entry whose ID equals id. An empty id is
// rejected with a diagnostic; an unknown id is a silent no-op (the log
// is already in the requested state). Reports whether an entry was
// removed.
func (s *Store) RemoveEntry(id string) bool {
	if id == "" {
		s.logger.Warn("rejected removal: empty id")
		return false
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.entries, func(e Entry) bool { return e.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = slices.Delete(s.entries, idx, idx+1)
	s.logCell.Write(slices.Clone(s.entries))
	s.mu.Unlock()

	s.notify()
	return true
}

// Reload re-reads both slots from storage, replacing in-memory state.
// Used when the backing files change underneath the running app (edited
// or cleared externally). Observers are notified only when something
// actually changed.
func (s *Store) Reload() {
	s.mu.Lock()
	// Slots are read under the lock so a concurrent mutation cannot land
	// between the file read and the in-memory swap.
	goal, entries := s.loadSlots()
	changed := goal != s.goal || !slices.Equal(entries, s.entries)
	s.goal = goal
	s.entries = entries
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}
