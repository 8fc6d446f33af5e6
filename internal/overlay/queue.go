package overlay

import (
	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/notify"
)

// Queue commands. These change only the local queue; the action relays in
// actions.go also tell the host.

// AddTrack appends t to the queue.
func (s *Session) AddTrack(t core.Track) bool {
	s.mu.Lock()
	ok := s.queue.AddTrack(t)
	s.mu.Unlock()

	if ok {
		s.Notify("Added: "+t.DisplayName(), notify.Info)
		s.broadcast()
	}
	return ok
}

// EnqueueResult appends the search result at index to the queue.
func (s *Session) EnqueueResult(index int) (core.Track, bool) {
	s.mu.Lock()
	if index < 0 || index >= len(s.state.Results) {
		s.mu.Unlock()
		return core.Track{}, false
	}
	t := s.state.Results[index]
	s.mu.Unlock()

	return t, s.AddTrack(t)
}

// RemoveTrack removes the first queue entry with the given ID.
func (s *Session) RemoveTrack(id string) bool {
	s.mu.Lock()
	ok := s.queue.RemoveTrack(id)
	s.mu.Unlock()

	if ok {
		s.broadcast()
	}
	return ok
}

// ClearQueue empties the queue.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	s.queue.Clear()
	s.mu.Unlock()

	s.Notify("Queue cleared", notify.Info)
	s.broadcast()
}

// SetCurrent moves the queue cursor to the first entry with the given ID.
func (s *Session) SetCurrent(id string) bool {
	s.mu.Lock()
	ok := s.queue.SetCurrent(id)
	if ok {
		s.followCursorLocked()
	}
	s.mu.Unlock()

	if ok {
		s.broadcast()
	}
	return ok
}

// Current returns the track under the queue cursor.
func (s *Session) Current() (core.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// QueueNext advances the queue cursor without telling the host.
func (s *Session) QueueNext() (core.Track, bool) {
	return s.step((*core.Queue).Next)
}

// QueuePrevious moves the queue cursor back without telling the host.
func (s *Session) QueuePrevious() (core.Track, bool) {
	return s.step((*core.Queue).Previous)
}

// step moves the cursor with move and shows the new entry as now playing.
func (s *Session) step(move func(*core.Queue) (core.Track, bool)) (core.Track, bool) {
	s.mu.Lock()
	t, ok := move(s.queue)
	if ok {
		s.followCursorLocked()
	}
	s.mu.Unlock()

	if ok {
		s.broadcast()
	}
	return t, ok
}

// followCursorLocked makes the entry under the cursor the current track.
func (s *Session) followCursorLocked() (core.Track, bool) {
	t, ok := s.queue.Current()
	if ok {
		track := t
		s.state.CurrentTrack = &track
	}
	return t, ok
}

// QueueToggleShuffle flips queue shuffle without telling the host.
func (s *Session) QueueToggleShuffle() bool {
	s.mu.Lock()
	on := s.queue.ToggleShuffle()
	s.state.Shuffle = on
	s.mu.Unlock()

	s.broadcast()
	return on
}

// SetRepeatMode sets the queue repeat mode from its name. Unknown names are
// rejected.
func (s *Session) SetRepeatMode(mode string) bool {
	s.mu.Lock()
	ok := s.queue.SetRepeatModeString(mode)
	if ok {
		s.state.Repeat = s.queue.RepeatMode()
	}
	s.mu.Unlock()

	if ok {
		s.broadcast()
	}
	return ok
}

// Queue returns a copy of the queue state.
func (s *Session) Queue() core.QueueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Snapshot()
}

// QueueLen returns the number of queued tracks.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}
