package core

import (
	"math/rand/v2"
	"testing"
)

func newTestQueue(ids ...string) *Queue {
	q := NewQueueWithRand(rand.New(rand.NewPCG(1, 2)))
	for _, id := range ids {
		q.AddTrack(Track{ID: id, Title: "Song " + id})
	}
	return q
}

func ids(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if !q.IsEmpty() {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != NoTrack {
		t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), NoTrack)
	}
	if q.RepeatMode() != RepeatNone {
		t.Errorf("RepeatMode() = %q, want %q", q.RepeatMode(), RepeatNone)
	}
	if q.Shuffled() {
		t.Error("Shuffled() = true, want false")
	}
	if _, ok := q.Current(); ok {
		t.Error("Current() on empty queue should report none")
	}
}

func TestAddTrack(t *testing.T) {
	q := newTestQueue()

	if !q.AddTrack(Track{ID: "A"}) {
		t.Fatal("AddTrack() = false, want true")
	}
	if !q.AddTrack(Track{ID: "A"}) {
		t.Fatal("AddTrack() duplicate = false, want true")
	}
	if q.AddTrack(Track{Title: "no id"}) {
		t.Error("AddTrack() without ID = true, want false")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestTracksReturnsCopy(t *testing.T) {
	q := newTestQueue("A", "B")

	tracks := q.Tracks()
	tracks[0].ID = "Z"

	if got := q.Tracks()[0].ID; got != "A" {
		t.Errorf("Tracks()[0].ID = %q after caller mutation, want %q", got, "A")
	}
}

func TestNextScenarioRepeatNone(t *testing.T) {
	q := newTestQueue("A", "B", "C")
	q.SetCurrent("A")

	steps := []struct {
		wantID    string
		wantOK    bool
		wantIndex int
	}{
		{"B", true, 1},
		{"C", true, 2},
		{"", false, 2},
		{"", false, 2},
	}

	for i, s := range steps {
		got, ok := q.Next()
		if ok != s.wantOK || got.ID != s.wantID {
			t.Errorf("step %d: Next() = (%q, %v), want (%q, %v)", i, got.ID, ok, s.wantID, s.wantOK)
		}
		if q.CurrentIndex() != s.wantIndex {
			t.Errorf("step %d: CurrentIndex() = %d, want %d", i, q.CurrentIndex(), s.wantIndex)
		}
	}
}

func TestNextRepeatAllWraps(t *testing.T) {
	q := newTestQueue("A", "B", "C")
	q.SetRepeatMode(RepeatAll)
	q.SetCurrent("C")

	got, ok := q.Next()
	if !ok || got.ID != "A" {
		t.Errorf("Next() = (%q, %v), want (A, true)", got.ID, ok)
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestNextRepeatAllFullCycle(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for start := 0; start < n; start++ {
			q := newTestQueue()
			for i := 0; i < n; i++ {
				q.AddTrack(Track{ID: string(rune('A' + i))})
			}
			q.SetRepeatMode(RepeatAll)
			q.SetCurrent(string(rune('A' + start)))

			for i := 0; i < n; i++ {
				q.Next()
			}
			if q.CurrentIndex() != start {
				t.Errorf("n=%d start=%d: CurrentIndex() = %d after full cycle", n, start, q.CurrentIndex())
			}
		}
	}
}

func TestNextFromUnsetCursor(t *testing.T) {
	q := newTestQueue("A", "B")

	got, ok := q.Next()
	if !ok || got.ID != "A" {
		t.Errorf("Next() = (%q, %v), want (A, true)", got.ID, ok)
	}
}

func TestNextEmpty(t *testing.T) {
	q := newTestQueue()
	q.SetRepeatMode(RepeatAll)

	if _, ok := q.Next(); ok {
		t.Error("Next() on empty queue should report none")
	}
	if _, ok := q.Previous(); ok {
		t.Error("Previous() on empty queue should report none")
	}
	if q.CurrentIndex() != NoTrack {
		t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), NoTrack)
	}
}

func TestPrevious(t *testing.T) {
	q := newTestQueue("A", "B", "C")
	q.SetCurrent("C")

	got, ok := q.Previous()
	if !ok || got.ID != "B" {
		t.Errorf("Previous() = (%q, %v), want (B, true)", got.ID, ok)
	}
	got, ok = q.Previous()
	if !ok || got.ID != "A" {
		t.Errorf("Previous() = (%q, %v), want (A, true)", got.ID, ok)
	}
	if _, ok = q.Previous(); ok {
		t.Error("Previous() at start with repeat none should report none")
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0 after overrun", q.CurrentIndex())
	}

	// The clamped cursor keeps working.
	got, ok = q.Next()
	if !ok || got.ID != "B" {
		t.Errorf("Next() after overrun = (%q, %v), want (B, true)", got.ID, ok)
	}
}

func TestPreviousRepeatAllWraps(t *testing.T) {
	q := newTestQueue("A", "B", "C")
	q.SetRepeatMode(RepeatAll)
	q.SetCurrent("A")

	got, ok := q.Previous()
	if !ok || got.ID != "C" {
		t.Errorf("Previous() = (%q, %v), want (C, true)", got.ID, ok)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", q.CurrentIndex())
	}
}

func TestRepeatOneReplaysCurrent(t *testing.T) {
	q := newTestQueue("A", "B", "C")
	q.SetRepeatMode(RepeatOne)
	q.SetCurrent("B")

	current, _ := q.Current()
	for i := 0; i < 3; i++ {
		next, ok := q.Next()
		if !ok || next.ID != current.ID {
			t.Errorf("Next() = (%q, %v), want (%q, true)", next.ID, ok, current.ID)
		}
		prev, ok := q.Previous()
		if !ok || prev.ID != current.ID {
			t.Errorf("Previous() = (%q, %v), want (%q, true)", prev.ID, ok, current.ID)
		}
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestRepeatOneWithoutCurrent(t *testing.T) {
	q := newTestQueue("A")
	q.SetRepeatMode(RepeatOne)

	if _, ok := q.Next(); ok {
		t.Error("Next() with repeat one and no current track should report none")
	}
}

func TestSetRepeatModeRejectsUnknown(t *testing.T) {
	q := newTestQueue("A")
	q.SetRepeatMode(RepeatAll)

	if q.SetRepeatModeString("invalid") {
		t.Error("SetRepeatModeString(invalid) = true, want false")
	}
	if q.SetRepeatMode(RepeatMode("loop")) {
		t.Error("SetRepeatMode(loop) = true, want false")
	}
	if q.RepeatMode() != RepeatAll {
		t.Errorf("RepeatMode() = %q, want %q", q.RepeatMode(), RepeatAll)
	}
	if !q.SetRepeatModeString("one") || q.RepeatMode() != RepeatOne {
		t.Errorf("SetRepeatModeString(one) did not apply, got %q", q.RepeatMode())
	}
}

func TestRemoveTrack(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		remove    string
		wantOK    bool
		wantIDs   []string
		wantIndex int
	}{
		{
			name:      "before cursor keeps identity",
			current:   "C",
			remove:    "B",
			wantOK:    true,
			wantIDs:   []string{"A", "C"},
			wantIndex: 1,
		},
		{
			name:      "current last entry clamps",
			current:   "C",
			remove:    "C",
			wantOK:    true,
			wantIDs:   []string{"A", "B"},
			wantIndex: 1,
		},
		{
			name:      "current middle entry moves to next",
			current:   "B",
			remove:    "B",
			wantOK:    true,
			wantIDs:   []string{"A", "C"},
			wantIndex: 1,
		},
		{
			name:      "after cursor",
			current:   "A",
			remove:    "C",
			wantOK:    true,
			wantIDs:   []string{"A", "B"},
			wantIndex: 0,
		},
		{
			name:      "missing id",
			current:   "B",
			remove:    "Z",
			wantOK:    false,
			wantIDs:   []string{"A", "B", "C"},
			wantIndex: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue("A", "B", "C")
			q.SetCurrent(tt.current)

			if got := q.RemoveTrack(tt.remove); got != tt.wantOK {
				t.Errorf("RemoveTrack(%q) = %v, want %v", tt.remove, got, tt.wantOK)
			}
			if got := ids(q.Tracks()); !equalIDs(got, tt.wantIDs) {
				t.Errorf("Tracks() = %v, want %v", got, tt.wantIDs)
			}
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
		})
	}
}

func TestRemoveTrackFirstMatchWins(t *testing.T) {
	q := newTestQueue()
	q.AddTrack(Track{ID: "A", Title: "first"})
	q.AddTrack(Track{ID: "A", Title: "second"})

	q.RemoveTrack("A")

	tracks := q.Tracks()
	if len(tracks) != 1 || tracks[0].Title != "second" {
		t.Errorf("Tracks() = %+v, want only the second entry", tracks)
	}
}

func TestRemoveLastTrackResetsCursor(t *testing.T) {
	q := newTestQueue("A")
	q.SetCurrent("A")

	q.RemoveTrack("A")

	if q.CurrentIndex() != NoTrack {
		t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), NoTrack)
	}
}

func TestClear(t *testing.T) {
	q := newTestQueue("A", "B")
	q.SetCurrent("B")

	q.Clear()

	if !q.IsEmpty() || q.CurrentIndex() != NoTrack {
		t.Errorf("after Clear(): Len() = %d, CurrentIndex() = %d", q.Len(), q.CurrentIndex())
	}
}

func TestSetCurrent(t *testing.T) {
	q := newTestQueue("A", "B", "C")

	if !q.SetCurrent("B") {
		t.Fatal("SetCurrent(B) = false, want true")
	}
	if q.SetCurrent("Z") {
		t.Error("SetCurrent(Z) = true, want false")
	}
	got, ok := q.Current()
	if !ok || got.ID != "B" {
		t.Errorf("Current() = (%q, %v), want (B, true)", got.ID, ok)
	}
	if up := ids(q.Upcoming()); !equalIDs(up, []string{"C"}) {
		t.Errorf("Upcoming() = %v, want [C]", up)
	}
}

func TestToggleShuffle(t *testing.T) {
	q := newTestQueue("A", "B", "C", "D", "E", "F", "G", "H")
	q.SetCurrent("D")
	before := ids(q.Tracks())

	if !q.ToggleShuffle() {
		t.Fatal("ToggleShuffle() = false, want true")
	}
	if q.Len() != len(before) {
		t.Fatalf("Len() = %d after shuffle, want %d", q.Len(), len(before))
	}

	seen := make(map[string]bool)
	for _, id := range ids(q.Tracks()) {
		seen[id] = true
	}
	for _, id := range before {
		if !seen[id] {
			t.Errorf("track %q lost by shuffle", id)
		}
	}

	current, ok := q.Current()
	if !ok || current.ID != "D" {
		t.Errorf("Current() after shuffle = (%q, %v), want (D, true)", current.ID, ok)
	}

	if q.ToggleShuffle() {
		t.Error("second ToggleShuffle() = true, want false")
	}
	if q.Shuffled() {
		t.Error("Shuffled() = true after toggling twice")
	}
}

func TestShuffleSmallQueues(t *testing.T) {
	q := newTestQueue()
	q.ToggleShuffle()
	if !q.IsEmpty() {
		t.Error("shuffling an empty queue added tracks")
	}

	q = newTestQueue("A")
	q.SetCurrent("A")
	q.ToggleShuffle()
	if got := ids(q.Tracks()); !equalIDs(got, []string{"A"}) {
		t.Errorf("Tracks() = %v, want [A]", got)
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestShuffleIsUniform(t *testing.T) {
	const rounds = 6000
	counts := make(map[string]int)

	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < rounds; i++ {
		q := NewQueueWithRand(rng)
		q.AddTrack(Track{ID: "A"})
		q.AddTrack(Track{ID: "B"})
		q.AddTrack(Track{ID: "C"})
		q.ToggleShuffle()

		key := ""
		for _, id := range ids(q.Tracks()) {
			key += id
		}
		counts[key]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d orderings, want 6: %v", len(counts), counts)
	}
	for order, n := range counts {
		// Expected 1000 each; allow a wide margin.
		if n < 800 || n > 1200 {
			t.Errorf("ordering %s seen %d times, want about %d", order, n, rounds/6)
		}
	}
}

func TestSnapshot(t *testing.T) {
	q := newTestQueue("A", "B")
	q.SetCurrent("B")
	q.SetRepeatMode(RepeatAll)

	s := q.Snapshot()
	if s.CurrentIndex != 1 || s.RepeatMode != RepeatAll || len(s.Tracks) != 2 {
		t.Errorf("Snapshot() = %+v", s)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		with      []string
		wantIDs   []string
		wantIndex int
	}{
		{"cursor follows entry", "b", []string{"x", "a", "b"}, []string{"x", "a", "b"}, 2},
		{"current entry gone", "b", []string{"x", "y"}, []string{"x", "y"}, NoTrack},
		{"no cursor stays unset", "", []string{"x"}, []string{"x"}, NoTrack},
		{"empty list", "a", nil, []string{}, NoTrack},
		{"tracks without ID skipped", "a", []string{"", "a"}, []string{"a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue("a", "b", "c")
			if tt.current != "" {
				q.SetCurrent(tt.current)
			}

			var tracks []Track
			for _, id := range tt.with {
				tracks = append(tracks, Track{ID: id})
			}
			q.Replace(tracks)

			if got := ids(q.Tracks()); !equalIDs(got, tt.wantIDs) {
				t.Errorf("Tracks() = %v, want %v", got, tt.wantIDs)
			}
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
		})
	}
}

func TestIndexOf(t *testing.T) {
	q := newTestQueue("a", "b", "a")
	if got := q.IndexOf("a"); got != 0 {
		t.Errorf("IndexOf(a) = %d, want 0", got)
	}
	if got := q.IndexOf("z"); got != -1 {
		t.Errorf("IndexOf(z) = %d, want -1", got)
	}
}
