package core

import "context"

// Backend is the host process that actually searches, plays and stores
// music. The overlay only relays user actions to it.
type Backend interface {
	// Playback control
	TogglePlayback(ctx context.Context) error
	NextTrack(ctx context.Context) error
	PreviousTrack(ctx context.Context) error
	PlayVideo(ctx context.Context, videoID string) error
	StopVideo(ctx context.Context) error
	PlayTrack(ctx context.Context, index int) error

	// Modes
	ToggleShuffle(ctx context.Context) error
	ToggleRepeat(ctx context.Context) error
	SetVolume(ctx context.Context, volume int) error

	// Search
	SearchVideos(ctx context.Context, query string) error

	// Overlay lifecycle
	UpdateUISettings(ctx context.Context, s UISettings) error
	CloseUI(ctx context.Context) error
}

// Library is the host's playlist and favorites storage. Backends that
// persist music for the player implement it alongside Backend.
type Library interface {
	CreatePlaylist(ctx context.Context, name, description string) error
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddTrackToPlaylist(ctx context.Context, playlistID, videoID string) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID string) error

	AddFavorite(ctx context.Context, videoID string) error
	RemoveFavorite(ctx context.Context, favoriteID string) error
	GetFavorites(ctx context.Context) ([]Track, error)
}

// UISettings is the layout the host applies to the overlay frame. Nil or
// empty fields are left unchanged.
type UISettings struct {
	Scale      *float64 `json:"scale,omitempty"`
	IsExpanded *bool    `json:"isExpanded,omitempty"`
	Theme      string   `json:"theme,omitempty"`
	Locale     string   `json:"locale,omitempty"`
}
