package backend

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	tberrors "github.com/tessro/tokyobox/internal/errors"
)

// Input limits accepted by the host.
const (
	MinQueryLength        = 2
	MaxQueryLength        = 100
	MinPlaylistNameLength = 3
	MaxPlaylistNameLength = 50
	MinScale              = 0.7
	MaxScale              = 1.3
)

var (
	videoIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistIDPattern = regexp.MustCompile(`^\d+$`)
)

// ValidateQuery trims q and checks its length.
func ValidateQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if n := utf8.RuneCountInString(q); n < MinQueryLength || n > MaxQueryLength {
		return "", tberrors.Invalid("search query must be %d-%d characters", MinQueryLength, MaxQueryLength)
	}
	return q, nil
}

// ValidatePlaylistName trims name and checks its length.
func ValidatePlaylistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinPlaylistNameLength || n > MaxPlaylistNameLength {
		return "", tberrors.Invalid("playlist name must be %d-%d characters", MinPlaylistNameLength, MaxPlaylistNameLength)
	}
	return name, nil
}

// ValidateVideoID checks that id looks like a YouTube video ID.
func ValidateVideoID(id string) error {
	if !videoIDPattern.MatchString(id) {
		return tberrors.Invalid("video ID %q must be 11 letters, digits, '-' or '_'", id)
	}
	return nil
}

// ParsePlaylistID checks that id is numeric and returns its value.
func ParsePlaylistID(id string) (int64, error) {
	id = strings.TrimSpace(id)
	if !playlistIDPattern.MatchString(id) {
		return 0, tberrors.Invalid("playlist ID %q must be numeric", id)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, tberrors.Invalid("playlist ID %q is out of range", id)
	}
	return n, nil
}

// ValidateScale checks the overlay scale factor.
func ValidateScale(scale float64) error {
	if scale < MinScale || scale > MaxScale {
		return tberrors.Invalid("scale %.2f must be between %.1f and %.1f", scale, MinScale, MaxScale)
	}
	return nil
}
