package nui

import (
	"errors"
	"testing"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, m Message)
	}{
		{
			name:  "show",
			input: `{"type":"show"}`,
			check: func(t *testing.T, m Message) {
				if _, ok := m.(Show); !ok {
					t.Errorf("got %T, want Show", m)
				}
			},
		},
		{
			name:  "hide",
			input: `{"type":"hide"}`,
			check: func(t *testing.T, m Message) {
				if _, ok := m.(Hide); !ok {
					t.Errorf("got %T, want Hide", m)
				}
			},
		},
		{
			name:  "update state",
			input: `{"type":"updateState","state":{"volume":80,"isPlaying":true}}`,
			check: func(t *testing.T, m Message) {
				u, ok := m.(UpdateState)
				if !ok {
					t.Fatalf("got %T, want UpdateState", m)
				}
				if u.Patch.Volume == nil || *u.Patch.Volume != 80 {
					t.Errorf("Volume = %v, want 80", u.Patch.Volume)
				}
				if u.Patch.IsPlaying == nil || !*u.Patch.IsPlaying {
					t.Error("IsPlaying not set")
				}
				if u.Patch.Visible != nil {
					t.Error("Visible should be left nil")
				}
			},
		},
		{
			name:  "update state without payload",
			input: `{"type":"updateState"}`,
			check: func(t *testing.T, m Message) {
				if _, ok := m.(UpdateState); !ok {
					t.Errorf("got %T, want UpdateState", m)
				}
			},
		},
		{
			name:  "update track",
			input: `{"type":"updateTrack","track":{"id":"abc","title":"Song","artist":"Band"}}`,
			check: func(t *testing.T, m Message) {
				u, ok := m.(UpdateTrack)
				if !ok {
					t.Fatalf("got %T, want UpdateTrack", m)
				}
				if u.Track.ID != "abc" || u.Track.Artist != "Band" {
					t.Errorf("Track = %+v", u.Track)
				}
			},
		},
		{
			name:  "update results",
			input: `{"type":"updateResults","results":[{"id":"a","title":"A"},{"id":"b","title":"B"}]}`,
			check: func(t *testing.T, m Message) {
				u, ok := m.(UpdateResults)
				if !ok {
					t.Fatalf("got %T, want UpdateResults", m)
				}
				if len(u.Results) != 2 {
					t.Errorf("len(Results) = %d, want 2", len(u.Results))
				}
			},
		},
		{
			name:  "empty results",
			input: `{"type":"updateResults"}`,
			check: func(t *testing.T, m Message) {
				u := m.(UpdateResults)
				if u.Results == nil || len(u.Results) != 0 {
					t.Errorf("Results = %v, want empty non-nil", u.Results)
				}
			},
		},
		{
			name:  "notification",
			input: `{"type":"notification","message":"Saved","level":"success"}`,
			check: func(t *testing.T, m Message) {
				n, ok := m.(Notify)
				if !ok {
					t.Fatalf("got %T, want Notify", m)
				}
				if n.Message != "Saved" || n.Level != "success" {
					t.Errorf("Notify = %+v", n)
				}
			},
		},
		{
			name:  "unknown tag",
			input: `{"type":"updatePlaylists","playlists":[]}`,
			check: func(t *testing.T, m Message) {
				u, ok := m.(Unknown)
				if !ok {
					t.Fatalf("got %T, want Unknown", m)
				}
				if u.Type() != "updatePlaylists" {
					t.Errorf("Type() = %q, want updatePlaylists", u.Type())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			tt.check(t, m)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		``,
		`not json`,
		`[]`,
		`{}`,
		`{"type":""}`,
		`{"type":"   "}`,
		`{"type":"updateTrack"}`,
	}

	for _, input := range inputs {
		_, err := Decode([]byte(input))
		if !errors.Is(err, tberrors.ErrMalformedMessage) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformedMessage", input, err)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	volume := 30
	messages := []Message{
		Show{},
		UpdateState{Patch: core.StatePatch{Volume: &volume}},
		UpdateTrack{Track: core.Track{ID: "x", Title: "T"}},
		UpdateResults{Results: []core.Track{{ID: "r", Title: "R"}}},
		Notify{Message: "hi", Level: "info"},
		Playlists{Playlists: []core.Playlist{{ID: 1, Name: "P"}}},
		PlaylistCreated{Playlist: core.Playlist{ID: 2, Name: "Q"}},
		TrackAdded{PlaylistID: 2, Track: core.Track{ID: "x"}},
		Unknown{Tag: "custom"},
	}

	for _, m := range messages {
		data, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode(%T) error = %v", m, err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(Encode(%T)) error = %v", m, err)
		}
		if got.Type() != m.Type() {
			t.Errorf("round trip type = %q, want %q", got.Type(), m.Type())
		}
	}
}

func TestEncodeUnknownWithoutTag(t *testing.T) {
	if _, err := Encode(Unknown{}); !errors.Is(err, tberrors.ErrMalformedMessage) {
		t.Errorf("Encode(Unknown{}) error = %v, want ErrMalformedMessage", err)
	}
}

func TestDecodeRawSearchHits(t *testing.T) {
	input := `{"type":"updateResults","results":[
		{"id":"dQw4w9WgXcQ","title":"Song","channelTitle":"Band","thumbnail":"t.jpg"},
		{"title":"no id"},
		{"videoId":"abc","title":"Other","duration":"03:25"}
	]}`

	m, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	u := m.(UpdateResults)
	if len(u.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(u.Results))
	}

	first := u.Results[0]
	if first.Artist != "Band" || first.ThumbnailURL != "t.jpg" || first.Duration != "00:00" {
		t.Errorf("Results[0] = %+v", first)
	}
	if first.URL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("Results[0].URL = %q", first.URL)
	}
	if u.Results[1].ID != "abc" || u.Results[1].Artist != "Unknown artist" {
		t.Errorf("Results[1] = %+v", u.Results[1])
	}
}

func TestDecodeHostQueue(t *testing.T) {
	m, err := Decode([]byte(`{"type":"updateState","state":{"playlist":[{"id":"a","title":"A"},{"id":"b"}]}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	u := m.(UpdateState)
	if len(u.Patch.Playlist) != 2 || u.Patch.Playlist[0].Title != "A" {
		t.Errorf("Patch.Playlist = %+v", u.Patch.Playlist)
	}
}

func TestDecodePlaylistMessages(t *testing.T) {
	m, err := Decode([]byte(`{"type":"playlists","playlists":[{"id":3,"name":"Road trip","tracks":[{"id":"a"}]}]}`))
	if err != nil {
		t.Fatalf("Decode(playlists) error = %v", err)
	}
	p := m.(Playlists)
	if len(p.Playlists) != 1 || p.Playlists[0].ID != 3 || p.Playlists[0].TrackCount() != 1 {
		t.Errorf("Playlists = %+v", p.Playlists)
	}

	m, err = Decode([]byte(`{"type":"playlists"}`))
	if err != nil {
		t.Fatalf("Decode(empty playlists) error = %v", err)
	}
	if p := m.(Playlists); p.Playlists == nil {
		t.Error("empty playlists push should decode to an empty list")
	}

	m, err = Decode([]byte(`{"type":"trackAdded","playlistId":3,"track":{"id":"b"}}`))
	if err != nil {
		t.Fatalf("Decode(trackAdded) error = %v", err)
	}
	if a := m.(TrackAdded); a.PlaylistID != 3 || a.Track.ID != "b" {
		t.Errorf("TrackAdded = %+v", a)
	}

	for _, input := range []string{`{"type":"playlistCreated"}`, `{"type":"trackAdded","playlistId":3}`} {
		if _, err := Decode([]byte(input)); !errors.Is(err, tberrors.ErrMalformedMessage) {
			t.Errorf("Decode(%s) error = %v, want ErrMalformedMessage", input, err)
		}
	}
}
