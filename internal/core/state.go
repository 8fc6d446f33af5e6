package core

// Loading tracks which overlay sections are waiting on the backend.
type Loading struct {
	Search bool `json:"search"`
	Player bool `json:"player"`
}

// UIState is the overlay state shown by the renderer.
type UIState struct {
	Visible      bool       `json:"visible"`
	IsPlaying    bool       `json:"isPlaying"`
	Volume       int        `json:"volume"`
	CurrentTrack *Track     `json:"currentTrack"`
	Shuffle      bool       `json:"shuffle"`
	Repeat       RepeatMode `json:"repeatMode"`
	Results      []Track    `json:"results"`
	Playlists    []Playlist `json:"playlists"`
	Favorites    []Track    `json:"favorites"`
	Loading      Loading    `json:"loading"`
}

// StatePatch is a partial UIState. Nil fields are left untouched by Apply.
type StatePatch struct {
	Visible      *bool       `json:"visible,omitempty"`
	IsPlaying    *bool       `json:"isPlaying,omitempty"`
	Volume       *int        `json:"volume,omitempty"`
	CurrentTrack *Track      `json:"currentTrack,omitempty"`
	Shuffle      *bool       `json:"shuffle,omitempty"`
	Repeat       *RepeatMode `json:"repeatMode,omitempty"`
	Results      []Track     `json:"results,omitempty"`
	Playlists    []Playlist  `json:"playlists,omitempty"`
	Favorites    []Track     `json:"favorites,omitempty"`

	// Playlist is the host's play queue. Apply ignores it; the session
	// loads it into the queue.
	Playlist []Track `json:"playlist,omitempty"`
}

// DefaultVolume is the volume of a fresh overlay.
const DefaultVolume = 50

// NewUIState returns the initial overlay state.
func NewUIState() UIState {
	return UIState{
		Volume: DefaultVolume,
		Repeat: RepeatNone,
	}
}

// Apply merges p into s. Out-of-range volumes are clamped and unknown repeat
// modes are ignored.
func (s *UIState) Apply(p StatePatch) {
	if p.Visible != nil {
		s.Visible = *p.Visible
	}
	if p.IsPlaying != nil {
		s.IsPlaying = *p.IsPlaying
	}
	if p.Volume != nil {
		s.Volume = ClampVolume(*p.Volume)
	}
	if p.CurrentTrack != nil {
		t := *p.CurrentTrack
		s.CurrentTrack = &t
		s.Loading.Player = false
	}
	if p.Shuffle != nil {
		s.Shuffle = *p.Shuffle
	}
	if p.Repeat != nil && p.Repeat.Valid() {
		s.Repeat = *p.Repeat
	}
	if p.Results != nil {
		s.Results = append([]Track(nil), p.Results...)
		s.Loading.Search = false
	}
	if p.Playlists != nil {
		s.Playlists = append([]Playlist(nil), p.Playlists...)
	}
	if p.Favorites != nil {
		s.Favorites = append([]Track(nil), p.Favorites...)
	}
}

// HasTrack returns true if there is a current track.
func (s *UIState) HasTrack() bool {
	return s != nil && s.CurrentTrack != nil
}

// ClampVolume limits v to [0, 100].
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
