// Package tail follows overlay state and reports what changed.
package tail

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/tokyobox/internal/core"
)

// EventType represents the type of overlay event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventPause
	EventResume
	EventVolumeChange
	EventShuffleChange
	EventRepeatChange
	EventShow
	EventHide
)

// Event represents an overlay state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.UIState
	Current   *core.UIState
}

// Source returns the current overlay state.
type Source interface {
	State(ctx context.Context) (*core.UIState, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*core.UIState, error)

// State calls f.
func (f SourceFunc) State(ctx context.Context) (*core.UIState, error) {
	return f(ctx)
}

// Watcher polls a source for state changes and emits events.
type Watcher struct {
	source   Source
	interval time.Duration
	events   chan Event
	done     chan struct{}
	onError  func(error)
}

// NewWatcher creates a new state watcher.
func NewWatcher(source Source, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// OnError registers a callback for failed polls. Failed polls are
// otherwise skipped.
func (w *Watcher) OnError(fn func(error)) {
	w.onError = fn
}

// Events returns the channel of overlay events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. The first successful poll
// reports the current track, if any.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var (
		prev     *core.UIState
		prevHash uint64
	)

	poll := func() {
		curr, err := w.source.State(ctx)
		if err != nil {
			if w.onError != nil && ctx.Err() == nil {
				w.onError(err)
			}
			return
		}

		hash, err := hashstructure.Hash(curr, hashstructure.FormatV2, nil)
		if err == nil && prev != nil && hash == prevHash {
			return
		}

		for _, e := range diffStates(prev, curr) {
			select {
			case w.events <- e:
			default:
				// Drop event if channel is full
			}
		}
		prev, prevHash = curr, hash
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.UIState) []Event {
	if curr == nil {
		return nil
	}

	now := time.Now()
	event := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() {
			return []Event{event(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if prev.Visible != curr.Visible {
		if curr.Visible {
			events = append(events, event(EventShow))
		} else {
			events = append(events, event(EventHide))
		}
	}

	if trackChanged(prev, curr) && curr.HasTrack() {
		events = append(events, event(EventTrackChange))
	}

	if prev.IsPlaying && !curr.IsPlaying {
		events = append(events, event(EventPause))
	} else if !prev.IsPlaying && curr.IsPlaying {
		events = append(events, event(EventResume))
	}

	if prev.Volume != curr.Volume {
		events = append(events, event(EventVolumeChange))
	}

	if prev.Shuffle != curr.Shuffle {
		events = append(events, event(EventShuffleChange))
	}

	if prev.Repeat != curr.Repeat {
		events = append(events, event(EventRepeatChange))
	}

	return events
}

// trackChanged returns true if the track changed.
func trackChanged(prev, curr *core.UIState) bool {
	if prev.CurrentTrack == nil && curr.CurrentTrack == nil {
		return false
	}
	if prev.CurrentTrack == nil || curr.CurrentTrack == nil {
		return true
	}
	return prev.CurrentTrack.ID != curr.CurrentTrack.ID
}
