package tracker

import (
	"encoding/json"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/noshapp/nosh/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.DirStore) {
	t.Helper()
	dir, err := storage.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	return Open(dir, slog.New(slog.DiscardHandler)), dir
}

func TestOpen_FreshStorageUsesDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	snap := s.Snapshot()
	if snap.Goal != DefaultGoal {
		t.Fatalf("Goal = %d, want %d", snap.Goal, DefaultGoal)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("Entries = %v, want empty", snap.Entries)
	}
}

func TestOpen_CorruptGoalSlotFallsBackWithoutTouchingLog(t *testing.T) {
	dir, err := storage.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if err := dir.Set("goal", []byte("{broken")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := dir.Set("log", []byte(`[{"id":"a","name":"Egg","calories":78}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := Open(dir, slog.New(slog.DiscardHandler))
	snap := s.Snapshot()
	if snap.Goal != DefaultGoal {
		t.Fatalf("Goal = %d, want default %d", snap.Goal, DefaultGoal)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].Name != "Egg" {
		t.Fatalf("Entries = %v, want the persisted Egg entry", snap.Entries)
	}
}

func TestOpen_CorruptLogSlotFallsBackWithoutTouchingGoal(t *testing.T) {
	dir, err := storage.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if err := dir.Set("goal", []byte("1800")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := dir.Set("log", []byte("not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := Open(dir, slog.New(slog.DiscardHandler))
	snap := s.Snapshot()
	if snap.Goal != 1800 {
		t.Fatalf("Goal = %d, want 1800", snap.Goal)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("Entries = %v, want empty", snap.Entries)
	}
}

func TestOpen_OutOfRangePersistedGoalUsesDefault(t *testing.T) {
	dir, err := storage.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if err := dir.Set("goal", []byte("-40")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s := Open(dir, slog.New(slog.DiscardHandler))
	if got := s.Snapshot().Goal; got != DefaultGoal {
		t.Fatalf("Goal = %d, want default %d", got, DefaultGoal)
	}
}

func TestSetGoal_AcceptsOnlyFinitePositive(t *testing.T) {
	cases := []struct {
		name      string
		candidate float64
		want      bool
	}{
		{"positive integer", 2500, true},
		{"fractional above one", 1800.9, true},
		{"zero", 0, false},
		{"negative", -5, false},
		{"nan", math.NaN(), false},
		{"positive inf", math.Inf(1), false},
		{"negative inf", math.Inf(-1), false},
		{"truncates to zero", 0.4, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			before := s.Snapshot().Goal

			if got := s.SetGoal(tc.candidate); got != tc.want {
				t.Fatalf("SetGoal(%v) = %v, want %v", tc.candidate, got, tc.want)
			}

			after := s.Snapshot().Goal
			if tc.want {
				if after != int(tc.candidate) {
					t.Fatalf("Goal = %d, want %d", after, int(tc.candidate))
				}
			} else if after != before {
				t.Fatalf("Goal changed on rejected input: %d -> %d", before, after)
			}
		})
	}
}

func TestSetGoal_RejectedCandidateKeepsPreviousGoal(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.SetGoal(2500) {
		t.Fatal("SetGoal(2500) = false, want true")
	}
	if s.SetGoal(-5) {
		t.Fatal("SetGoal(-5) = true, want false")
	}
	if got := s.Snapshot().Goal; got != 2500 {
		t.Fatalf("Goal = %d, want 2500", got)
	}
}

func TestSetGoal_PersistsThroughReopen(t *testing.T) {
	s, dir := newTestStore(t)
	s.SetGoal(1650)

	reopened := Open(dir, slog.New(slog.DiscardHandler))
	if got := reopened.Snapshot().Goal; got != 1650 {
		t.Fatalf("Goal after reopen = %d, want 1650", got)
	}
}

func TestAddEntry_TrimsNameAndTruncatesCalories(t *testing.T) {
	s, dir := newTestStore(t)

	entry, ok := s.AddEntry("  Mixed Nuts  ", 180)
	if !ok {
		t.Fatal("AddEntry = false, want true")
	}
	if entry.Name != "Mixed Nuts" {
		t.Fatalf("Name = %q, want %q", entry.Name, "Mixed Nuts")
	}
	if entry.Calories != 180 {
		t.Fatalf("Calories = %d, want 180", entry.Calories)
	}
	if entry.ID == "" {
		t.Fatal("ID is empty, want a generated id")
	}

	snap := s.Snapshot()
	if len(snap.Entries) != 1 || snap.Entries[0] != entry {
		t.Fatalf("Entries = %v, want [%v]", snap.Entries, entry)
	}

	// The persisted encoding reflects the new entry.
	data, ok2, err := dir.Get("log")
	if err != nil || !ok2 {
		t.Fatalf("Get(log) = (%q, %v, %v), want persisted bytes", data, ok2, err)
	}
	var persisted []Entry
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted log is not valid JSON: %v", err)
	}
	if len(persisted) != 1 || persisted[0] != entry {
		t.Fatalf("persisted log = %v, want [%v]", persisted, entry)
	}
}

func TestAddEntry_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		itemName string
		calories float64
	}{
		{"empty name", "", 100},
		{"whitespace name", "   ", 100},
		{"negative calories", "Toast", -1},
		{"nan calories", "Toast", math.NaN()},
		{"inf calories", "Toast", math.Inf(1)},
		{"calories beyond int range", "Feast", 1e19},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, dir := newTestStore(t)

			if _, ok := s.AddEntry(tc.itemName, tc.calories); ok {
				t.Fatalf("AddEntry(%q, %v) = true, want false", tc.itemName, tc.calories)
			}
			if got := s.Snapshot().Entries; len(got) != 0 {
				t.Fatalf("Entries = %v, want empty", got)
			}
			// No persistence write for a rejected entry.
			if _, ok, _ := dir.Get("log"); ok {
				t.Fatal("log slot was written for a rejected entry")
			}
		})
	}
}

func TestAddEntry_ZeroCaloriesAllowed(t *testing.T) {
	s, _ := newTestStore(t)

	entry, ok := s.AddEntry("Black Coffee", 0)
	if !ok {
		t.Fatal("AddEntry(Black Coffee, 0) = false, want true")
	}
	if entry.Calories != 0 {
		t.Fatalf("Calories = %d, want 0", entry.Calories)
	}
}

func TestAddEntry_SequentialCallsPreserveOrderAndDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)

	first, _ := s.AddEntry("Oatmeal", 150)
	second, _ := s.AddEntry("Banana", 105)

	snap := s.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(snap.Entries))
	}
	if snap.Entries[0] != first || snap.Entries[1] != second {
		t.Fatalf("Entries = %v, want call order [%v %v]", snap.Entries, first, second)
	}
	if first.ID == second.ID {
		t.Fatalf("both entries share id %q", first.ID)
	}
}

func TestRemoveEntry_RoundTripRestoresPriorLog(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddEntry("Oatmeal", 150)
	s.AddEntry("Banana", 105)
	before := s.Snapshot().Entries

	entry, ok := s.AddEntry("Mixed Nuts", 180)
	if !ok {
		t.Fatal("AddEntry = false, want true")
	}
	if !s.RemoveEntry(entry.ID) {
		t.Fatalf("RemoveEntry(%q) = false, want true", entry.ID)
	}

	after := s.Snapshot().Entries
	if !slices.Equal(before, after) {
		t.Fatalf("log after round trip = %v, want %v", after, before)
	}
}

func TestRemoveEntry_UnknownIDIsSilentNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddEntry("Oatmeal", 150)
	before := s.Snapshot().Entries

	if s.RemoveEntry("no-such-id") {
		t.Fatal("RemoveEntry(unknown) = true, want false")
	}
	after := s.Snapshot().Entries
	if !slices.Equal(before, after) {
		t.Fatalf("log changed: %v -> %v", before, after)
	}
}

func TestRemoveEntry_EmptyIDRejected(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddEntry("Oatmeal", 150)

	if s.RemoveEntry("") {
		t.Fatal("RemoveEntry(\"\") = true, want false")
	}
	if got := len(s.Snapshot().Entries); got != 1 {
		t.Fatalf("len(Entries) = %d, want 1", got)
	}
}

func TestRemoveEntry_RemovesOnlyMatchingEntry(t *testing.T) {
	s, _ := newTestStore(t)
	first, _ := s.AddEntry("Oatmeal", 150)
	second, _ := s.AddEntry("Banana", 105)
	third, _ := s.AddEntry("Yogurt", 120)

	if !s.RemoveEntry(second.ID) {
		t.Fatal("RemoveEntry = false, want true")
	}

	snap := s.Snapshot()
	want := []Entry{first, third}
	if !slices.Equal(snap.Entries, want) {
		t.Fatalf("Entries = %v, want %v", snap.Entries, want)
	}
}

func TestSnapshot_IsDefensiveCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddEntry("Oatmeal", 150)

	snap := s.Snapshot()
	snap.Entries[0].Name = "mutated"

	if got := s.Snapshot().Entries[0].Name; got != "Oatmeal" {
		t.Fatalf("store entry name = %q, want %q", got, "Oatmeal")
	}
}

func TestSnapshot_ConsumedAndRemaining(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetGoal(500)
	s.AddEntry("Oatmeal", 150)
	s.AddEntry("Banana", 105)

	snap := s.Snapshot()
	if got := snap.Consumed(); got != 255 {
		t.Fatalf("Consumed = %d, want 255", got)
	}
	if got := snap.Remaining(); got != 245 {
		t.Fatalf("Remaining = %d, want 245", got)
	}

	s.AddEntry("Burger", 550)
	if got := s.Snapshot().Remaining(); got != -305 {
		t.Fatalf("Remaining over goal = %d, want -305", got)
	}
}

func TestSubscribe_NotifiedOnSuccessfulMutationsOnly(t *testing.T) {
	s, _ := newTestStore(t)

	calls := 0
	s.Subscribe(func() { calls++ })

	s.SetGoal(2200)
	s.SetGoal(-1) // rejected
	entry, _ := s.AddEntry("Oatmeal", 150)
	s.AddEntry("", 10) // rejected
	s.RemoveEntry(entry.ID)
	s.RemoveEntry("missing") // silent no-op, no change

	if calls != 3 {
		t.Fatalf("observer calls = %d, want 3", calls)
	}
}

func TestReload_PicksUpExternalEdits(t *testing.T) {
	s, dir := newTestStore(t)
	s.SetGoal(2200)

	if err := dir.Set("goal", []byte("1500")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	calls := 0
	s.Subscribe(func() { calls++ })
	s.Reload()

	if got := s.Snapshot().Goal; got != 1500 {
		t.Fatalf("Goal after reload = %d, want 1500", got)
	}
	if calls != 1 {
		t.Fatalf("observer calls = %d, want 1", calls)
	}

	// Reload with nothing changed stays quiet.
	s.Reload()
	if calls != 1 {
		t.Fatalf("observer calls after no-op reload = %d, want 1", calls)
	}
}

func TestAddEntry_StoredCaloriesNeverNegative(t *testing.T) {
	s, _ := newTestStore(t)

	s.AddEntry("Oatmeal", 150)
	if _, ok := s.AddEntry("Feast", 1e19); ok {
		t.Fatal("AddEntry(1e19) = true, want false")
	}

	for _, e := range s.Snapshot().Entries {
		if e.Calories < 0 {
			t.Fatalf("entry %q has negative calories %d", e.Name, e.Calories)
		}
	}
}

func TestReload_ConcurrentMutationsStayConsistent(t *testing.T) {
	s, dir := newTestStore(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			s.AddEntry("Snack", 10)
			s.Reload()
		}
	}()
	for i := 0; i < 50; i++ {
		s.Reload()
	}
	<-done

	// Memory and the persisted log agree once everything has settled.
	s.Reload()
	data, ok, err := dir.Get("log")
	if err != nil || !ok {
		t.Fatalf("Get(log) = (%v, %v), want persisted bytes", ok, err)
	}
	var persisted []Entry
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted log is not valid JSON: %v", err)
	}
	if got := s.Snapshot().Entries; !slices.Equal(got, persisted) {
		t.Fatalf("memory has %d entries, file has %d", len(got), len(persisted))
	}
}

func TestOpen_NilStorageRunsMemoryOnly(t *testing.T) {
	s := Open(nil, slog.New(slog.DiscardHandler))

	if got := s.Snapshot().Goal; got != DefaultGoal {
		t.Fatalf("Goal = %d, want %d", got, DefaultGoal)
	}
	if _, ok := s.AddEntry("Toast", 80); !ok {
		t.Fatal("AddEntry = false, want true with nil storage")
	}
	if got := len(s.Snapshot().Entries); got != 1 {
		t.Fatalf("len(Entries) = %d, want 1", got)
	}
}
