package core

import "strconv"

// Playlist is a playlist stored by the host.
type Playlist struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	CoverURL    string  `json:"cover_url,omitempty"`
	Tracks      []Track `json:"tracks,omitempty"`
}

// IDString returns the ID in the form the host's playlist actions take.
func (p Playlist) IDString() string {
	return strconv.FormatInt(p.ID, 10)
}

// TrackCount returns the number of tracks in the playlist.
func (p Playlist) TrackCount() int {
	return len(p.Tracks)
}

// AddPlaylist appends p, replacing an existing playlist with the same ID.
func AddPlaylist(list []Playlist, p Playlist) []Playlist {
	out := make([]Playlist, 0, len(list)+1)
	for _, existing := range list {
		if existing.ID != p.ID {
			out = append(out, existing)
		}
	}
	return append(out, p)
}

// AddPlaylistTrack appends t to the playlist with the given ID. It returns
// false when no such playlist is known.
func AddPlaylistTrack(list []Playlist, playlistID int64, t Track) ([]Playlist, bool) {
	for i := range list {
		if list[i].ID == playlistID {
			out := append([]Playlist(nil), list...)
			out[i].Tracks = append(append([]Track(nil), out[i].Tracks...), t)
			return out, true
		}
	}
	return list, false
}
