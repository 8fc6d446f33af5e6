package backend

import (
	"context"
	"strings"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

// Host endpoints.
const (
	EndpointSearchVideo             = "searchVideo"
	EndpointPlayVideo               = "playVideo"
	EndpointStopVideo               = "stopVideo"
	EndpointTogglePlayback          = "togglePlayback"
	EndpointNextTrack               = "nextTrack"
	EndpointPreviousTrack           = "previousTrack"
	EndpointToggleShuffle           = "toggleShuffle"
	EndpointToggleRepeat            = "toggleRepeat"
	EndpointSetVolume               = "setVolume"
	EndpointPlayTrack               = "playTrack"
	EndpointUpdateUISettings        = "updateUISettings"
	EndpointCreatePlaylist          = "createPlaylist"
	EndpointDeletePlaylist          = "deletePlaylist"
	EndpointAddTrackToPlaylist      = "addTrackToPlaylist"
	EndpointRemoveTrackFromPlaylist = "removeTrackFromPlaylist"
	EndpointAddFavorite             = "addFavorite"
	EndpointRemoveFavorite          = "removeFavorite"
	EndpointGetFavorites            = "getFavorites"
	EndpointCloseUI                 = "closeUI"
)

var (
	_ core.Backend = (*Client)(nil)
	_ core.Library = (*Client)(nil)
)

// Playback control

// TogglePlayback pauses or resumes the current track.
func (c *Client) TogglePlayback(ctx context.Context) error {
	return c.Post(ctx, EndpointTogglePlayback, nil, nil)
}

// NextTrack skips to the next track.
func (c *Client) NextTrack(ctx context.Context) error {
	return c.Post(ctx, EndpointNextTrack, nil, nil)
}

// PreviousTrack goes back to the previous track.
func (c *Client) PreviousTrack(ctx context.Context) error {
	return c.Post(ctx, EndpointPreviousTrack, nil, nil)
}

// PlayVideo starts playing a YouTube video.
func (c *Client) PlayVideo(ctx context.Context, videoID string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	return c.Post(ctx, EndpointPlayVideo, map[string]string{"videoId": videoID}, nil)
}

// StopVideo stops playback.
func (c *Client) StopVideo(ctx context.Context) error {
	return c.Post(ctx, EndpointStopVideo, nil, nil)
}

// PlayTrack plays the entry at index in the host's playlist.
func (c *Client) PlayTrack(ctx context.Context, index int) error {
	if index < 0 {
		return tberrors.Invalid("track index %d must not be negative", index)
	}
	return c.Post(ctx, EndpointPlayTrack, map[string]int{"index": index}, nil)
}

// Modes

// ToggleShuffle flips shuffle on the host.
func (c *Client) ToggleShuffle(ctx context.Context) error {
	return c.Post(ctx, EndpointToggleShuffle, nil, nil)
}

// ToggleRepeat advances the host repeat mode.
func (c *Client) ToggleRepeat(ctx context.Context) error {
	return c.Post(ctx, EndpointToggleRepeat, nil, nil)
}

// SetVolume sets the volume, clamped to [0, 100].
func (c *Client) SetVolume(ctx context.Context, volume int) error {
	return c.Post(ctx, EndpointSetVolume, map[string]int{"volume": core.ClampVolume(volume)}, nil)
}

// Search

// SearchVideos asks the host to search. Results arrive later as an
// updateResults push.
func (c *Client) SearchVideos(ctx context.Context, query string) error {
	q, err := ValidateQuery(query)
	if err != nil {
		return err
	}
	return c.Post(ctx, EndpointSearchVideo, map[string]string{"query": q}, nil)
}

// UI

// UpdateUISettings pushes layout settings to the host.
func (c *Client) UpdateUISettings(ctx context.Context, s core.UISettings) error {
	if s.Scale != nil {
		if err := ValidateScale(*s.Scale); err != nil {
			return err
		}
	}
	return c.Post(ctx, EndpointUpdateUISettings, s, nil)
}

// CloseUI tells the host the overlay was closed so it can release focus.
func (c *Client) CloseUI(ctx context.Context) error {
	return c.Post(ctx, EndpointCloseUI, nil, nil)
}

// Playlists

// CreatePlaylist creates a playlist owned by the player.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) error {
	name, err := ValidatePlaylistName(name)
	if err != nil {
		return err
	}
	body := map[string]string{"name": name}
	if d := strings.TrimSpace(description); d != "" {
		body["description"] = d
	}
	return c.Post(ctx, EndpointCreatePlaylist, body, nil)
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	id, err := ParsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	return c.Post(ctx, EndpointDeletePlaylist, map[string]int64{"playlistId": id}, nil)
}

// AddTrackToPlaylist appends a video to a playlist.
func (c *Client) AddTrackToPlaylist(ctx context.Context, playlistID, videoID string) error {
	id, err := ParsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	body := struct {
		PlaylistID int64  `json:"playlistId"`
		VideoID    string `json:"videoId"`
	}{id, videoID}
	return c.Post(ctx, EndpointAddTrackToPlaylist, body, nil)
}

// RemoveTrackFromPlaylist removes a track from a playlist.
func (c *Client) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID string) error {
	id, err := ParsePlaylistID(playlistID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(trackID) == "" {
		return tberrors.Invalid("track ID is required")
	}
	body := struct {
		PlaylistID int64  `json:"playlistId"`
		TrackID    string `json:"trackId"`
	}{id, trackID}
	return c.Post(ctx, EndpointRemoveTrackFromPlaylist, body, nil)
}

// Favorites

// AddFavorite marks a video as a favorite.
func (c *Client) AddFavorite(ctx context.Context, videoID string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	return c.Post(ctx, EndpointAddFavorite, map[string]string{"videoId": videoID}, nil)
}

// RemoveFavorite removes a favorite by its ID.
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID string) error {
	if strings.TrimSpace(favoriteID) == "" {
		return tberrors.Invalid("favorite ID is required")
	}
	return c.Post(ctx, EndpointRemoveFavorite, map[string]string{"favoriteId": favoriteID}, nil)
}

// GetFavorites fetches the player's favorites. Hosts that answer with an
// empty body deliver the list as a later push; the result is then empty.
func (c *Client) GetFavorites(ctx context.Context) ([]core.Track, error) {
	var resp struct {
		Favorites []core.Track `json:"favorites"`
	}
	if err := c.Post(ctx, EndpointGetFavorites, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Favorites, nil
}
