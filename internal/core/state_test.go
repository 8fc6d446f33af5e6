package core

import "testing"

func TestUIStateApply(t *testing.T) {
	s := NewUIState()
	s.Loading.Search = true

	visible := true
	volume := 140
	repeat := RepeatMode("sideways")
	s.Apply(StatePatch{
		Visible: &visible,
		Volume:  &volume,
		Repeat:  &repeat,
		Results: []Track{{ID: "abc"}},
	})

	if !s.Visible {
		t.Error("Visible = false, want true")
	}
	if s.Volume != 100 {
		t.Errorf("Volume = %d, want 100", s.Volume)
	}
	if s.Repeat != RepeatNone {
		t.Errorf("Repeat = %q, want unchanged %q", s.Repeat, RepeatNone)
	}
	if len(s.Results) != 1 || s.Loading.Search {
		t.Errorf("Results = %v, Loading.Search = %v", s.Results, s.Loading.Search)
	}
	if s.IsPlaying {
		t.Error("IsPlaying changed by a patch that did not carry it")
	}
}

func TestUIStateApplyCopiesTrack(t *testing.T) {
	s := NewUIState()
	track := Track{ID: "abc", Title: "Song"}

	s.Apply(StatePatch{CurrentTrack: &track})
	track.Title = "changed"

	if !s.HasTrack() || s.CurrentTrack.Title != "Song" {
		t.Errorf("CurrentTrack = %+v, want a copy of the patched track", s.CurrentTrack)
	}
}

func TestParseRepeatMode(t *testing.T) {
	tests := []struct {
		in     string
		want   RepeatMode
		wantOK bool
	}{
		{"none", RepeatNone, true},
		{"one", RepeatOne, true},
		{"all", RepeatAll, true},
		{"", RepeatNone, false},
		{"ALL", RepeatNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseRepeatMode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseRepeatMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRepeatModeNextCycles(t *testing.T) {
	m := RepeatNone
	for _, want := range []RepeatMode{RepeatOne, RepeatAll, RepeatNone} {
		m = m.Next()
		if m != want {
			t.Errorf("Next() = %q, want %q", m, want)
		}
	}
}

func TestTrackThumbnail(t *testing.T) {
	if got := (Track{}).Thumbnail(); got != DefaultThumbnail {
		t.Errorf("Thumbnail() = %q, want %q", got, DefaultThumbnail)
	}
	if got := (Track{ThumbnailURL: "x.png"}).Thumbnail(); got != "x.png" {
		t.Errorf("Thumbnail() = %q, want x.png", got)
	}
}

func TestUIStateApplyLibrary(t *testing.T) {
	s := NewUIState()
	s.Apply(StatePatch{
		Playlists: []Playlist{{ID: 1, Name: "Road trip"}},
		Favorites: []Track{{ID: "fav"}},
		Playlist:  []Track{{ID: "queued"}},
	})

	if len(s.Playlists) != 1 || s.Playlists[0].Name != "Road trip" {
		t.Errorf("Playlists = %+v", s.Playlists)
	}
	if len(s.Favorites) != 1 {
		t.Errorf("Favorites = %+v", s.Favorites)
	}

	s.Apply(StatePatch{})
	if len(s.Playlists) != 1 || len(s.Favorites) != 1 {
		t.Error("an empty patch cleared the library")
	}
}

func TestPlaylistHelpers(t *testing.T) {
	list := []Playlist{{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}}

	list = AddPlaylist(list, Playlist{ID: 1, Name: "Renamed"})
	if len(list) != 2 || list[1].Name != "Renamed" {
		t.Errorf("AddPlaylist() = %+v", list)
	}

	before := list
	list, ok := AddPlaylistTrack(list, 2, Track{ID: "a"})
	if !ok || list[0].TrackCount() != 1 {
		t.Errorf("AddPlaylistTrack() = %+v, %v", list, ok)
	}
	if before[0].TrackCount() != 0 {
		t.Error("AddPlaylistTrack modified its input")
	}
	if _, ok := AddPlaylistTrack(list, 9, Track{ID: "a"}); ok {
		t.Error("AddPlaylistTrack() found an unknown playlist")
	}
	if got := list[0].IDString(); got != "2" {
		t.Errorf("IDString() = %q, want 2", got)
	}
}
