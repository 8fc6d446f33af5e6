// Package search turns host search results into queue tracks and parses
// what the user typed into either a video to play or a query to run.
package search

import (
	"regexp"
	"strings"

	"github.com/tessro/tokyobox/internal/backend"
	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

const (
	// MaxResults caps the number of results shown.
	MaxResults = 10

	// UnknownArtist is shown when a result has no channel title.
	UnknownArtist = "Unknown artist"

	// WatchURL is the YouTube watch page prefix.
	WatchURL = "https://www.youtube.com/watch?v="
)

var (
	youTubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+$`)
	youTubeIDPattern  = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?/]*)`)
)

// Result is one search hit as pushed by the host. Raw hits carry
// channelTitle and thumbnail; hits the host already formatted carry artist
// and thumbnailUrl instead, and either shape is accepted.
type Result struct {
	ID           string `json:"id,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	Artist       string `json:"artist,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// FromTrack renders t in the formatted result shape.
func FromTrack(t core.Track) Result {
	return Result{
		ID:           t.ID,
		Title:        t.Title,
		Artist:       t.Artist,
		ThumbnailURL: t.ThumbnailURL,
		Duration:     t.Duration,
	}
}

// Track converts r into a queue track.
func (r Result) Track() (core.Track, bool) {
	id := strings.TrimSpace(firstNonEmpty(r.ID, r.VideoID))
	if id == "" {
		return core.Track{}, false
	}

	artist := firstNonEmpty(r.ChannelTitle, r.Artist)
	if artist == "" {
		artist = UnknownArtist
	}
	duration := r.Duration
	if duration == "" {
		duration = "00:00"
	}

	return core.Track{
		ID:           id,
		Title:        r.Title,
		Artist:       artist,
		ThumbnailURL: firstNonEmpty(r.Thumbnail, r.ThumbnailURL),
		Duration:     duration,
		URL:          WatchURL + id,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Tracks converts results, skipping entries without an ID and keeping at
// most MaxResults.
func Tracks(results []Result) []core.Track {
	tracks := make([]core.Track, 0, min(len(results), MaxResults))
	for _, r := range results {
		if len(tracks) == MaxResults {
			break
		}
		if t, ok := r.Track(); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// IsYouTubeURL reports whether s points at youtube.com or youtu.be.
func IsYouTubeURL(s string) bool {
	return youTubeURLPattern.MatchString(strings.TrimSpace(s))
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
func ExtractVideoID(s string) (string, bool) {
	m := youTubeIDPattern.FindStringSubmatch(s)
	if m == nil || len(m[2]) != 11 {
		return "", false
	}
	if backend.ValidateVideoID(m[2]) != nil {
		return "", false
	}
	return m[2], true
}

// Target is what a piece of user input resolves to: a video to play
// directly, or a query to search for.
type Target struct {
	VideoID string
	Query   string
}

// IsVideo reports whether the target names a single video.
func (t Target) IsVideo() bool {
	return t.VideoID != ""
}

// Resolve interprets user input. YouTube URLs and bare video IDs become
// videos; anything else must be a valid search query.
func Resolve(input string) (Target, error) {
	input = strings.TrimSpace(input)

	if IsYouTubeURL(input) {
		if id, ok := ExtractVideoID(input); ok {
			return Target{VideoID: id}, nil
		}
		return Target{}, tberrors.Invalid("could not find a video ID in %q", input)
	}

	if backend.ValidateVideoID(input) == nil && looksLikeID(input) {
		return Target{VideoID: input}, nil
	}

	q, err := backend.ValidateQuery(input)
	if err != nil {
		return Target{}, err
	}
	return Target{Query: q}, nil
}

// looksLikeID separates IDs from 11-letter words: real IDs mix case, digits
// or punctuation.
func looksLikeID(s string) bool {
	var upper, lower, other bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		default:
			other = true
		}
	}
	return other || (upper && lower)
}
