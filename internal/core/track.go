package core

// DefaultThumbnail is shown when a track has no thumbnail of its own.
const DefaultThumbnail = "img/default_cover.svg"

// Track represents one playable item in the overlay.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Thumbnail returns the track thumbnail, or the default placeholder.
func (t Track) Thumbnail() string {
	if t.ThumbnailURL == "" {
		return DefaultThumbnail
	}
	return t.ThumbnailURL
}

// DisplayName returns "Artist - Title", or just the title when the artist is unknown.
func (t Track) DisplayName() string {
	if t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	return t.Title
}
