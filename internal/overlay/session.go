// Package overlay owns the running overlay: the play queue, the UI state
// pushed by the host, the user's settings and the toast notifications.
// Every entry point (HTTP bridge, terminal UI, CLI) goes through a Session.
package overlay

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/logger"
	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/nui"
	"github.com/tessro/tokyobox/internal/settings"
)

const defaultCallTimeout = 15 * time.Second

// Options holds the collaborators of a Session.
type Options struct {
	Backend       core.Backend
	Settings      *settings.Store
	Notifications *notify.Center
	Logger        logger.LoggerInterface

	// Rand seeds queue shuffling. Nil uses the global source.
	Rand *rand.Rand
	// CallTimeout bounds each backend call. Zero uses a default.
	CallTimeout time.Duration
}

// View is a consistent copy of everything the overlay shows.
type View struct {
	State         core.UIState          `json:"state"`
	Queue         core.QueueSnapshot    `json:"queue"`
	Notifications []notify.Notification `json:"notifications"`
	Settings      settings.Record       `json:"settings"`
}

// Session is the single owner of the overlay state. It is safe for
// concurrent use; backend calls are made without holding the lock.
type Session struct {
	mu      sync.Mutex
	queue   *core.Queue
	state   core.UIState
	ignored map[string]int

	backend  core.Backend
	settings *settings.Store
	center   *notify.Center
	log      logger.LoggerInterface
	timeout  time.Duration

	subMu  sync.Mutex
	subs   []chan struct{}
	closed bool
}

// New creates a session. A missing backend, settings store or notification
// center returns ErrMissingElement.
func New(opts Options) (*Session, error) {
	switch {
	case opts.Backend == nil:
		return nil, fmt.Errorf("%w: backend", tberrors.ErrMissingElement)
	case opts.Settings == nil:
		return nil, fmt.Errorf("%w: settings store", tberrors.ErrMissingElement)
	case opts.Notifications == nil:
		return nil, fmt.Errorf("%w: notification center", tberrors.ErrMissingElement)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	s := &Session{
		queue:    core.NewQueueWithRand(opts.Rand),
		state:    core.NewUIState(),
		ignored:  make(map[string]int),
		backend:  opts.Backend,
		settings: opts.Settings,
		center:   opts.Notifications,
		log:      log,
		timeout:  timeout,
	}
	s.applySettings(opts.Settings.All())
	return s, nil
}

// applySettings copies the persisted preferences into the live state.
func (s *Session) applySettings(rec settings.Record) {
	for _, key := range []string{settings.KeyVolume, settings.KeyRepeat, settings.KeyShuffle, settings.KeyNotifications} {
		s.applySetting(key, rec)
	}
}

func (s *Session) applySetting(key string, rec settings.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case settings.KeyVolume:
		s.state.Volume = core.ClampVolume(rec.Volume)
	case settings.KeyRepeat:
		if s.queue.SetRepeatMode(rec.Repeat) {
			s.state.Repeat = rec.Repeat
		}
	case settings.KeyShuffle:
		if rec.Shuffle != s.queue.Shuffled() {
			s.state.Shuffle = s.queue.ToggleShuffle()
		}
	case settings.KeyNotifications:
		s.center.SetQuiet(!rec.Notifications)
	}
}

// Handle applies an inbound push. handled is false for unknown message
// types; changed reports whether the visible state differs afterwards.
func (s *Session) Handle(msg nui.Message) (handled, changed bool) {
	s.mu.Lock()
	before := s.hashLocked()
	handled = true
	toast := false

	switch m := msg.(type) {
	case nui.Show:
		s.state.Visible = true
	case nui.Hide:
		s.state.Visible = false
	case nui.UpdateState:
		s.state.Apply(m.Patch)
		if m.Patch.Playlist != nil {
			s.queue.Replace(m.Patch.Playlist)
			if m.Patch.CurrentTrack != nil {
				s.queue.SetCurrent(m.Patch.CurrentTrack.ID)
			}
		}
	case nui.UpdateTrack:
		track := m.Track
		s.state.Apply(core.StatePatch{CurrentTrack: &track})
	case nui.UpdateResults:
		s.state.Apply(core.StatePatch{Results: m.Results})
	case nui.Notify:
		_, toast = s.center.Push(m.Message, notify.ParseLevel(m.Level))
	case nui.Playlists:
		s.state.Playlists = append([]core.Playlist{}, m.Playlists...)
	case nui.PlaylistCreated:
		s.state.Playlists = core.AddPlaylist(s.state.Playlists, m.Playlist)
	case nui.TrackAdded:
		s.state.Playlists, _ = core.AddPlaylistTrack(s.state.Playlists, m.PlaylistID, m.Track)
	case nui.Unknown:
		s.ignored[m.Type()]++
		handled = false
	default:
		handled = false
	}

	changed = toast || s.hashLocked() != before
	s.mu.Unlock()

	if !handled {
		s.log.Debugf("overlay: ignoring message type %q", msg.Type())
	}
	if changed {
		s.broadcast()
	}
	return handled, changed
}

// hashLocked fingerprints the UI state and queue for change detection.
func (s *Session) hashLocked() uint64 {
	h, err := hashstructure.Hash(struct {
		State core.UIState
		Queue core.QueueSnapshot
	}{s.state, s.queue.Snapshot()}, hashstructure.FormatV2, nil)
	if err != nil {
		// Unhashable state never compares equal, so every call counts as a change.
		s.log.Warnf("overlay: hashing state: %v", err)
		return uint64(time.Now().UnixNano())
	}
	return h
}

// Ignored returns how many pushes of each unknown type were dropped.
func (s *Session) Ignored() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.ignored))
	for k, v := range s.ignored {
		out[k] = v
	}
	return out
}

// Snapshot returns a consistent copy of the overlay.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	state := s.state
	state.Results = append([]core.Track(nil), s.state.Results...)
	if s.state.CurrentTrack != nil {
		t := *s.state.CurrentTrack
		state.CurrentTrack = &t
	}
	queue := s.queue.Snapshot()
	s.mu.Unlock()

	return View{
		State:         state,
		Queue:         queue,
		Notifications: s.center.Active(time.Now()),
		Settings:      s.settings.All(),
	}
}

// Settings returns the settings store.
func (s *Session) Settings() *settings.Store {
	return s.settings
}

// UpdateSetting stores a setting and applies it to the live overlay.
// Layout settings are also relayed to the host; a failed relay is reported
// as a toast and does not undo the stored value.
func (s *Session) UpdateSetting(ctx context.Context, key string, value interface{}) error {
	if err := s.settings.Set(key, value); err != nil {
		return err
	}
	rec := s.settings.All()
	s.applySetting(key, rec)
	s.broadcast()

	if layout, ok := uiSettingsFor(key, rec); ok {
		_ = s.call(ctx, "Update layout", func(ctx context.Context) error {
			return s.backend.UpdateUISettings(ctx, layout)
		})
	}
	return nil
}

// uiSettingsFor returns the host layout change for key, if key is one the
// host renders.
func uiSettingsFor(key string, rec settings.Record) (core.UISettings, bool) {
	switch key {
	case settings.KeyScale:
		scale := rec.Scale
		return core.UISettings{Scale: &scale}, true
	case settings.KeyTheme:
		return core.UISettings{Theme: rec.Theme}, true
	case settings.KeyLocale:
		return core.UISettings{Locale: rec.Locale}, true
	}
	return core.UISettings{}, false
}

// Notify shows a toast.
func (s *Session) Notify(message string, level notify.Level) {
	if _, ok := s.center.Push(message, level); ok {
		s.broadcast()
	}
}

// Dismiss removes a toast by ID.
func (s *Session) Dismiss(id string) bool {
	ok := s.center.Dismiss(id)
	if ok {
		s.broadcast()
	}
	return ok
}

// DismissNewest removes the most recent toast.
func (s *Session) DismissNewest() bool {
	ok := s.center.DismissNewest()
	if ok {
		s.broadcast()
	}
	return ok
}

// Subscribe returns a channel that receives a value whenever the overlay
// changes. Signals coalesce: a slow reader sees at most one pending value.
// The channel is closed by Close.
func (s *Session) Subscribe() <-chan struct{} {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Session) broadcast() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close releases subscribers. The session must not be used afterwards.
func (s *Session) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// call runs a backend action with the session timeout. Failures are logged
// and shown as an error toast.
func (s *Session) call(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.log.PrintError(what, err)
		s.Notify(failureMessage(what, err), notify.Error)
		return err
	}
	return nil
}

func failureMessage(what string, err error) string {
	if suggestion := tberrors.GetSuggestion(err); suggestion != "" {
		return fmt.Sprintf("%s failed. %s", what, suggestion)
	}
	return fmt.Sprintf("%s failed: %v", what, err)
}
