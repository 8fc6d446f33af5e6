package overlay

import (
	"context"

	"github.com/tessro/tokyobox/internal/backend"
	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/search"
	"github.com/tessro/tokyobox/internal/settings"
)

// Action relays update the local state first, then tell the host. A host
// failure is logged, shown as an error toast and returned.

// Next advances the queue and asks the host to skip.
func (s *Session) Next(ctx context.Context) (core.Track, bool, error) {
	t, ok := s.step((*core.Queue).Next)
	return t, ok, s.call(ctx, "Next track", s.backend.NextTrack)
}

// Previous moves the queue back and asks the host to go back.
func (s *Session) Previous(ctx context.Context) (core.Track, bool, error) {
	t, ok := s.step((*core.Queue).Previous)
	return t, ok, s.call(ctx, "Previous track", s.backend.PreviousTrack)
}

// ToggleShuffle flips shuffle locally and on the host.
func (s *Session) ToggleShuffle(ctx context.Context) (bool, error) {
	on := s.QueueToggleShuffle()
	if on {
		s.Notify("Shuffle on", notify.Info)
	} else {
		s.Notify("Shuffle off", notify.Info)
	}
	return on, s.call(ctx, "Shuffle", s.backend.ToggleShuffle)
}

// CycleRepeat moves to the next repeat mode (none, one, all) locally and on
// the host.
func (s *Session) CycleRepeat(ctx context.Context) (core.RepeatMode, error) {
	s.mu.Lock()
	mode := s.queue.RepeatMode().Next()
	s.queue.SetRepeatMode(mode)
	s.state.Repeat = mode
	s.mu.Unlock()

	s.Notify("Repeat: "+mode.String(), notify.Info)
	s.broadcast()
	return mode, s.call(ctx, "Repeat", s.backend.ToggleRepeat)
}

// TogglePlayback pauses or resumes.
func (s *Session) TogglePlayback(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.state.IsPlaying = !s.state.IsPlaying
	playing := s.state.IsPlaying
	s.mu.Unlock()

	s.broadcast()
	return playing, s.call(ctx, "Play/pause", s.backend.TogglePlayback)
}

// SetVolume clamps volume to [0, 100], stores it as the preferred volume and
// sends it to the host.
func (s *Session) SetVolume(ctx context.Context, volume int) (int, error) {
	volume = core.ClampVolume(volume)

	s.mu.Lock()
	s.state.Volume = volume
	s.mu.Unlock()

	if err := s.settings.Set(settings.KeyVolume, volume); err != nil {
		s.log.PrintError("settings", err)
	}
	s.broadcast()

	return volume, s.call(ctx, "Volume", func(ctx context.Context) error {
		return s.backend.SetVolume(ctx, volume)
	})
}

// AdjustVolume changes the volume by delta.
func (s *Session) AdjustVolume(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	volume := s.state.Volume + delta
	s.mu.Unlock()
	return s.SetVolume(ctx, volume)
}

// Search asks the host to search. Invalid queries are rejected with an error
// toast and never reach the host.
func (s *Session) Search(ctx context.Context, query string) error {
	q, err := backend.ValidateQuery(query)
	if err != nil {
		s.Notify("Enter a search term of 2-100 characters", notify.Error)
		return err
	}

	s.setLoading(func(l *core.Loading) { l.Search = true })
	err = s.call(ctx, "Search", func(ctx context.Context) error {
		return s.backend.SearchVideos(ctx, q)
	})
	if err != nil {
		s.setLoading(func(l *core.Loading) { l.Search = false })
	}
	return err
}

// PlayTrack moves the queue cursor to id and asks the host to play it.
// Entries with a YouTube video ID are played directly; anything else is
// played by its queue position.
func (s *Session) PlayTrack(ctx context.Context, id string) error {
	s.mu.Lock()
	if !s.queue.SetCurrent(id) {
		s.mu.Unlock()
		s.Notify("Track not found in queue", notify.Error)
		return tberrors.Invalid("track %q is not in the queue", id)
	}
	t, _ := s.followCursorLocked()
	index := s.queue.CurrentIndex()
	s.state.Loading.Player = true
	s.mu.Unlock()
	s.broadcast()

	err := s.call(ctx, "Play", func(ctx context.Context) error {
		if backend.ValidateVideoID(t.ID) == nil {
			return s.backend.PlayVideo(ctx, t.ID)
		}
		return s.backend.PlayTrack(ctx, index)
	})
	if err != nil {
		s.setLoading(func(l *core.Loading) { l.Player = false })
	}
	return err
}

// Stop asks the host to stop playback.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()
	s.broadcast()
	return s.call(ctx, "Stop", s.backend.StopVideo)
}

// CloseUI hides the overlay and releases the host's focus.
func (s *Session) CloseUI(ctx context.Context) error {
	s.mu.Lock()
	s.state.Visible = false
	s.mu.Unlock()
	s.broadcast()
	return s.call(ctx, "Close", s.backend.CloseUI)
}

func (s *Session) setLoading(update func(*core.Loading)) {
	s.mu.Lock()
	update(&s.state.Loading)
	s.mu.Unlock()
	s.broadcast()
}

// Play resolves free-form input: a YouTube URL or video ID is played,
// anything else is searched for. A video already in the queue is played
// from its existing entry; otherwise it is appended first.
func (s *Session) Play(ctx context.Context, input string) error {
	target, err := search.Resolve(input)
	if err != nil {
		s.Notify("Enter a YouTube link or a search term of 2-100 characters", notify.Error)
		return err
	}
	if !target.IsVideo() {
		return s.Search(ctx, target.Query)
	}

	t := core.Track{
		ID:    target.VideoID,
		Title: target.VideoID,
		URL:   search.WatchURL + target.VideoID,
	}
	s.mu.Lock()
	if s.queue.IndexOf(t.ID) < 0 {
		s.queue.AddTrack(t)
	}
	s.mu.Unlock()
	return s.PlayTrack(ctx, t.ID)
}
