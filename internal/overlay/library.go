package overlay

import (
	"context"
	"fmt"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/notify"
)

// library returns the backend's playlist and favorites storage.
func (s *Session) library() (core.Library, error) {
	lib, ok := s.backend.(core.Library)
	if !ok {
		return nil, fmt.Errorf("%w: host has no playlist storage", tberrors.ErrBackendUnavailable)
	}
	return lib, nil
}

// libraryCall runs fn against the library and confirms success with a toast.
func (s *Session) libraryCall(ctx context.Context, what, done string, fn func(context.Context, core.Library) error) error {
	lib, err := s.library()
	if err != nil {
		s.Notify(failureMessage(what, err), notify.Error)
		return err
	}
	err = s.call(ctx, what, func(ctx context.Context) error {
		return fn(ctx, lib)
	})
	if err != nil {
		return err
	}
	s.Notify(done, notify.Success)
	return nil
}

// CreatePlaylist asks the host to create a playlist.
func (s *Session) CreatePlaylist(ctx context.Context, name, description string) error {
	return s.libraryCall(ctx, "Create playlist", "Playlist created", func(ctx context.Context, lib core.Library) error {
		return lib.CreatePlaylist(ctx, name, description)
	})
}

// DeletePlaylist asks the host to delete a playlist.
func (s *Session) DeletePlaylist(ctx context.Context, playlistID string) error {
	return s.libraryCall(ctx, "Delete playlist", "Playlist deleted", func(ctx context.Context, lib core.Library) error {
		return lib.DeletePlaylist(ctx, playlistID)
	})
}

// AddToPlaylist adds a video to a playlist. An empty videoID adds the
// current track.
func (s *Session) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	if videoID == "" {
		t, ok := s.playing()
		if !ok {
			return s.nothingPlaying("Add to playlist")
		}
		videoID = t.ID
	}
	return s.libraryCall(ctx, "Add to playlist", "Added to playlist", func(ctx context.Context, lib core.Library) error {
		return lib.AddTrackToPlaylist(ctx, playlistID, videoID)
	})
}

// RemoveFromPlaylist removes a track from a playlist.
func (s *Session) RemoveFromPlaylist(ctx context.Context, playlistID, trackID string) error {
	return s.libraryCall(ctx, "Remove from playlist", "Removed from playlist", func(ctx context.Context, lib core.Library) error {
		return lib.RemoveTrackFromPlaylist(ctx, playlistID, trackID)
	})
}

// AddFavorite marks a video as a favorite. An empty videoID uses the
// current track.
func (s *Session) AddFavorite(ctx context.Context, videoID string) error {
	if videoID == "" {
		t, ok := s.playing()
		if !ok {
			return s.nothingPlaying("Favorite")
		}
		videoID = t.ID
	}
	return s.libraryCall(ctx, "Favorite", "Added to favorites", func(ctx context.Context, lib core.Library) error {
		return lib.AddFavorite(ctx, videoID)
	})
}

// RemoveFavorite removes a favorite.
func (s *Session) RemoveFavorite(ctx context.Context, favoriteID string) error {
	return s.libraryCall(ctx, "Remove favorite", "Removed from favorites", func(ctx context.Context, lib core.Library) error {
		return lib.RemoveFavorite(ctx, favoriteID)
	})
}

// Favorites fetches the player's favorites.
func (s *Session) Favorites(ctx context.Context) ([]core.Track, error) {
	lib, err := s.library()
	if err != nil {
		s.Notify(failureMessage("Favorites", err), notify.Error)
		return nil, err
	}

	var favs []core.Track
	err = s.call(ctx, "Favorites", func(ctx context.Context) error {
		var err error
		favs, err = lib.GetFavorites(ctx)
		return err
	})
	if favs == nil {
		favs = []core.Track{}
	}
	return favs, err
}

// playing returns the track the host reports as current, falling back to
// the queue cursor.
func (s *Session) playing() (core.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentTrack != nil {
		return *s.state.CurrentTrack, true
	}
	return s.queue.Current()
}

func (s *Session) nothingPlaying(what string) error {
	err := tberrors.Invalid("no track is playing")
	s.Notify(failureMessage(what, err), notify.Error)
	return err
}

// Playlists returns the playlists the host last reported.
func (s *Session) Playlists() []core.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Playlist{}, s.state.Playlists...)
}
