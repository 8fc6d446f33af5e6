// Package nui decodes the state-push messages the host sends to the overlay.
package nui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/search"
)

// Message type tags on the wire.
const (
	TypeShow          = "show"
	TypeHide          = "hide"
	TypeUpdateState   = "updateState"
	TypeUpdateTrack   = "updateTrack"
	TypeUpdateResults = "updateResults"
	TypeNotification  = "notification"

	TypePlaylists       = "playlists"
	TypePlaylistCreated = "playlistCreated"
	TypeTrackAdded      = "trackAdded"
)

// Message is one inbound push. The set of implementations is closed:
// Show, Hide, UpdateState, UpdateTrack, UpdateResults, Notify, Playlists,
// PlaylistCreated, TrackAdded and Unknown.
type Message interface {
	Type() string
	message()
}

// Show makes the overlay visible.
type Show struct{}

// Hide hides the overlay.
type Hide struct{}

// UpdateState merges a partial state into the overlay state.
type UpdateState struct {
	Patch core.StatePatch
}

// UpdateTrack replaces the current track.
type UpdateTrack struct {
	Track core.Track
}

// UpdateResults replaces the search results. Hits without an ID are
// dropped and at most search.MaxResults are kept.
type UpdateResults struct {
	Results []core.Track
}

// Notify asks the overlay to show a toast.
type Notify struct {
	Message string
	Level   string
}

// Playlists replaces the host's playlist list.
type Playlists struct {
	Playlists []core.Playlist
}

// PlaylistCreated adds a newly created playlist.
type PlaylistCreated struct {
	Playlist core.Playlist
}

// TrackAdded reports a track appended to a playlist.
type TrackAdded struct {
	PlaylistID int64
	Track      core.Track
}

// Unknown is a message whose tag is not recognized.
type Unknown struct {
	Tag string
}

func (Show) Type() string            { return TypeShow }
func (Hide) Type() string            { return TypeHide }
func (UpdateState) Type() string     { return TypeUpdateState }
func (UpdateTrack) Type() string     { return TypeUpdateTrack }
func (UpdateResults) Type() string   { return TypeUpdateResults }
func (Notify) Type() string          { return TypeNotification }
func (Playlists) Type() string       { return TypePlaylists }
func (PlaylistCreated) Type() string { return TypePlaylistCreated }
func (TrackAdded) Type() string      { return TypeTrackAdded }
func (u Unknown) Type() string       { return u.Tag }

func (Show) message()            {}
func (Hide) message()            {}
func (UpdateState) message()     {}
func (UpdateTrack) message()     {}
func (UpdateResults) message()   {}
func (Notify) message()          {}
func (Playlists) message()       {}
func (PlaylistCreated) message() {}
func (TrackAdded) message()      {}
func (Unknown) message()         {}

// envelope is the wire shape shared by every message.
type envelope struct {
	Type    string           `json:"type"`
	State   *core.StatePatch `json:"state,omitempty"`
	Track   *core.Track      `json:"track,omitempty"`
	Results []search.Result  `json:"results,omitempty"`
	Message string           `json:"message,omitempty"`
	Level   string           `json:"level,omitempty"`

	Playlists  []core.Playlist `json:"playlists,omitempty"`
	Playlist   *core.Playlist  `json:"playlist,omitempty"`
	PlaylistID int64           `json:"playlistId,omitempty"`
}

// Decode parses a JSON push. Payloads that are not JSON objects or carry no
// type tag return ErrMalformedMessage. Unrecognized tags decode to Unknown.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", tberrors.ErrMalformedMessage, err)
	}

	tag := strings.TrimSpace(env.Type)
	if tag == "" {
		return nil, fmt.Errorf("%w: missing type", tberrors.ErrMalformedMessage)
	}

	switch tag {
	case TypeShow:
		return Show{}, nil
	case TypeHide:
		return Hide{}, nil
	case TypeUpdateState:
		if env.State == nil {
			return UpdateState{}, nil
		}
		return UpdateState{Patch: *env.State}, nil
	case TypeUpdateTrack:
		if env.Track == nil {
			return nil, fmt.Errorf("%w: updateTrack without track", tberrors.ErrMalformedMessage)
		}
		return UpdateTrack{Track: *env.Track}, nil
	case TypeUpdateResults:
		return UpdateResults{Results: search.Tracks(env.Results)}, nil
	case TypeNotification:
		return Notify{Message: env.Message, Level: env.Level}, nil
	case TypePlaylists:
		list := env.Playlists
		if list == nil {
			list = []core.Playlist{}
		}
		return Playlists{Playlists: list}, nil
	case TypePlaylistCreated:
		if env.Playlist == nil {
			return nil, fmt.Errorf("%w: playlistCreated without playlist", tberrors.ErrMalformedMessage)
		}
		return PlaylistCreated{Playlist: *env.Playlist}, nil
	case TypeTrackAdded:
		if env.Track == nil {
			return nil, fmt.Errorf("%w: trackAdded without track", tberrors.ErrMalformedMessage)
		}
		return TrackAdded{PlaylistID: env.PlaylistID, Track: *env.Track}, nil
	default:
		return Unknown{Tag: tag}, nil
	}
}

// Encode renders m in the wire format accepted by Decode.
func Encode(m Message) ([]byte, error) {
	env := envelope{Type: m.Type()}

	switch v := m.(type) {
	case Show, Hide, Unknown:
	case UpdateState:
		patch := v.Patch
		env.State = &patch
	case UpdateTrack:
		track := v.Track
		env.Track = &track
	case UpdateResults:
		env.Results = make([]search.Result, len(v.Results))
		for i, t := range v.Results {
			env.Results[i] = search.FromTrack(t)
		}
	case Notify:
		env.Message = v.Message
		env.Level = v.Level
	case Playlists:
		env.Playlists = v.Playlists
	case PlaylistCreated:
		playlist := v.Playlist
		env.Playlist = &playlist
	case TrackAdded:
		track := v.Track
		env.Track = &track
		env.PlaylistID = v.PlaylistID
	default:
		return nil, fmt.Errorf("%w: unsupported message %T", tberrors.ErrMalformedMessage, m)
	}

	if env.Type == "" {
		return nil, fmt.Errorf("%w: missing type", tberrors.ErrMalformedMessage)
	}
	return json.Marshal(env)
}
