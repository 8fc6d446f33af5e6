package core

import "math/rand/v2"

// NoTrack is the cursor value of a queue with nothing selected.
const NoTrack = -1

// Queue is the overlay's play queue: an ordered track list, a cursor into it,
// and the shuffle/repeat flags that drive next/previous selection.
//
// A Queue is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
type Queue struct {
	tracks       []Track
	currentIndex int
	shuffled     bool
	repeat       RepeatMode
	rng          *rand.Rand
}

// QueueSnapshot is a read-only copy of the queue state.
type QueueSnapshot struct {
	Tracks       []Track    `json:"tracks"`
	CurrentIndex int        `json:"currentIndex"`
	Shuffled     bool       `json:"shuffled"`
	RepeatMode   RepeatMode `json:"repeatMode"`
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return NewQueueWithRand(nil)
}

// NewQueueWithRand creates an empty queue that shuffles with rng.
// A nil rng uses the global source.
func NewQueueWithRand(rng *rand.Rand) *Queue {
	return &Queue{
		currentIndex: NoTrack,
		repeat:       RepeatNone,
		rng:          rng,
	}
}

// AddTrack appends t to the end of the queue. Duplicates are allowed and are
// distinct entries by position. It returns false only if t has no ID.
func (q *Queue) AddTrack(t Track) bool {
	if t.ID == "" {
		return false
	}
	q.tracks = append(q.tracks, t)
	return true
}

// RemoveTrack removes the first track whose ID matches.
// The cursor keeps pointing at the same entry when an earlier entry is
// removed; if the current entry itself is removed the cursor stays on the
// entry that slid into its place, clamped to the new last index.
func (q *Queue) RemoveTrack(id string) bool {
	index := q.indexOf(id)
	if index < 0 {
		return false
	}

	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	switch {
	case len(q.tracks) == 0:
		q.currentIndex = NoTrack
	case index < q.currentIndex:
		q.currentIndex--
	case q.currentIndex >= len(q.tracks):
		q.currentIndex = len(q.tracks) - 1
	}
	return true
}

// Replace swaps in a new track list. Tracks without an ID are skipped. The
// cursor stays on the entry it pointed at, found by ID; if that entry is
// gone the cursor resets to NoTrack.
func (q *Queue) Replace(tracks []Track) {
	current, ok := q.Current()

	next := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID != "" {
			next = append(next, t)
		}
	}
	q.tracks = next

	q.currentIndex = NoTrack
	if ok {
		q.currentIndex = q.indexOf(current.ID)
	}
}

// Clear empties the queue and resets the cursor.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = NoTrack
}

// Current returns the track under the cursor.
func (q *Queue) Current() (Track, bool) {
	if !q.validIndex(q.currentIndex) {
		return Track{}, false
	}
	return q.tracks[q.currentIndex], true
}

// SetCurrent moves the cursor to the first track whose ID matches.
func (q *Queue) SetCurrent(id string) bool {
	index := q.indexOf(id)
	if index < 0 {
		return false
	}
	q.currentIndex = index
	return true
}

// Next advances the cursor according to the repeat mode and returns the new
// current track.
//   - RepeatOne: the cursor does not move, the current track is returned
//   - RepeatAll: the cursor wraps from the last entry to the first
//   - RepeatNone: at the last entry nothing is returned and the cursor stays
func (q *Queue) Next() (Track, bool) {
	if len(q.tracks) == 0 {
		return Track{}, false
	}

	last := len(q.tracks) - 1
	switch {
	case q.repeat == RepeatOne:
		return q.Current()
	case q.repeat == RepeatAll && q.currentIndex == last:
		q.currentIndex = 0
	case q.currentIndex >= last:
		return Track{}, false
	default:
		q.currentIndex++
	}
	return q.tracks[q.currentIndex], true
}

// Previous is the mirror of Next.
//   - RepeatOne: the cursor does not move, the current track is returned
//   - RepeatAll: the cursor wraps from the first entry to the last
//   - RepeatNone: at the first entry nothing is returned and the cursor stays
func (q *Queue) Previous() (Track, bool) {
	if len(q.tracks) == 0 {
		return Track{}, false
	}

	switch {
	case q.repeat == RepeatOne:
		return q.Current()
	case q.repeat == RepeatAll && q.currentIndex <= 0:
		q.currentIndex = len(q.tracks) - 1
	case q.currentIndex <= 0:
		return Track{}, false
	default:
		q.currentIndex--
	}
	return q.tracks[q.currentIndex], true
}

// ToggleShuffle flips the shuffle flag and returns the new value.
// Turning shuffle on permutes the tracks in place; the cursor follows the
// entry it pointed at. Turning it off keeps the shuffled order.
func (q *Queue) ToggleShuffle() bool {
	q.shuffled = !q.shuffled
	if q.shuffled {
		q.shuffle()
	}
	return q.shuffled
}

// Fisher-Yates with j drawn uniformly from [0, i].
func (q *Queue) shuffle() {
	cur := q.currentIndex
	for i := len(q.tracks) - 1; i > 0; i-- {
		j := q.intN(i + 1)
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
		switch cur {
		case i:
			cur = j
		case j:
			cur = i
		}
	}
	q.currentIndex = cur
}

func (q *Queue) intN(n int) int {
	if q.rng != nil {
		return q.rng.IntN(n)
	}
	return rand.IntN(n)
}

// SetRepeatMode sets the repeat mode. Unknown modes are rejected and leave
// the current mode in place.
func (q *Queue) SetRepeatMode(mode RepeatMode) bool {
	if !mode.Valid() {
		return false
	}
	q.repeat = mode
	return true
}

// SetRepeatModeString is SetRepeatMode for untyped input.
func (q *Queue) SetRepeatModeString(s string) bool {
	mode, ok := ParseRepeatMode(s)
	if !ok {
		return false
	}
	return q.SetRepeatMode(mode)
}

// RepeatMode returns the current repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeat
}

// Shuffled reports whether shuffle is on.
func (q *Queue) Shuffled() bool {
	return q.shuffled
}

// CurrentIndex returns the cursor, or NoTrack.
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Upcoming returns a copy of the tracks after the cursor.
func (q *Queue) Upcoming() []Track {
	start := q.currentIndex + 1
	if start >= len(q.tracks) {
		return nil
	}
	out := make([]Track, len(q.tracks)-start)
	copy(out, q.tracks[start:])
	return out
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Snapshot returns a copy of the full queue state.
func (q *Queue) Snapshot() QueueSnapshot {
	return QueueSnapshot{
		Tracks:       q.Tracks(),
		CurrentIndex: q.currentIndex,
		Shuffled:     q.shuffled,
		RepeatMode:   q.repeat,
	}
}

// IndexOf returns the position of the first track whose ID matches, or -1.
func (q *Queue) IndexOf(id string) int {
	return q.indexOf(id)
}

func (q *Queue) indexOf(id string) int {
	for i := range q.tracks {
		if q.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) validIndex(i int) bool {
	return 0 <= i && i < len(q.tracks)
}
