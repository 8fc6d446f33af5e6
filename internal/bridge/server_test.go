package bridge

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/nui"
	"github.com/tessro/tokyobox/internal/overlay"
	"github.com/tessro/tokyobox/internal/settings"
)

type stubBackend struct {
	err error
}

func (b *stubBackend) TogglePlayback(context.Context) error       { return b.err }
func (b *stubBackend) NextTrack(context.Context) error            { return b.err }
func (b *stubBackend) PreviousTrack(context.Context) error        { return b.err }
func (b *stubBackend) PlayVideo(context.Context, string) error    { return b.err }
func (b *stubBackend) StopVideo(context.Context) error            { return b.err }
func (b *stubBackend) PlayTrack(context.Context, int) error       { return b.err }
func (b *stubBackend) ToggleShuffle(context.Context) error        { return b.err }
func (b *stubBackend) ToggleRepeat(context.Context) error         { return b.err }
func (b *stubBackend) SetVolume(context.Context, int) error       { return b.err }
func (b *stubBackend) SearchVideos(context.Context, string) error { return b.err }
func (b *stubBackend) CloseUI(context.Context) error              { return b.err }
func (b *stubBackend) UpdateUISettings(context.Context, core.UISettings) error {
	return b.err
}

func (b *stubBackend) CreatePlaylist(context.Context, string, string) error     { return b.err }
func (b *stubBackend) DeletePlaylist(context.Context, string) error             { return b.err }
func (b *stubBackend) AddTrackToPlaylist(context.Context, string, string) error { return b.err }
func (b *stubBackend) RemoveTrackFromPlaylist(context.Context, string, string) error {
	return b.err
}
func (b *stubBackend) AddFavorite(context.Context, string) error    { return b.err }
func (b *stubBackend) RemoveFavorite(context.Context, string) error { return b.err }
func (b *stubBackend) GetFavorites(context.Context) ([]core.Track, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []core.Track{{ID: "fav1", Title: "Fav"}}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *overlay.Session, *stubBackend) {
	t.Helper()
	be := &stubBackend{}
	session, err := overlay.New(overlay.Options{
		Backend:       be,
		Settings:      settings.NewStore(""),
		Notifications: notify.NewCenter(time.Minute),
	})
	require.NoError(t, err)
	t.Cleanup(session.Close)

	srv, err := New(session, Options{Metrics: true, Debug: true})
	require.NoError(t, err)
	return srv, session, be
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMessage(t *testing.T) {
	srv, session, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/message", `{"type":"show"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var res MessageResult
	decode(t, w, &res)
	assert.True(t, res.Handled)
	assert.True(t, res.Changed)
	assert.True(t, session.Snapshot().State.Visible)

	w = do(t, srv, http.MethodPost, "/message", `{"type":"updatePlaylists"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	decode(t, w, &res)
	assert.False(t, res.Handled)
	assert.False(t, res.Changed)

	w = do(t, srv, http.MethodPost, "/message", `{"volume":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/message", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestState(t *testing.T) {
	srv, session, _ := newTestServer(t)
	session.AddTrack(core.Track{ID: "a", Title: "A"})

	w := do(t, srv, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view overlay.View
	decode(t, w, &view)
	assert.Len(t, view.Queue.Tracks, 1)
	assert.Equal(t, core.NoTrack, view.Queue.CurrentIndex)
	assert.Equal(t, 50, view.State.Volume)
	assert.Equal(t, "dark", view.Settings.Theme)
}

func TestQueueRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, id := range []string{"a", "b", "c"} {
		w := do(t, srv, http.MethodPost, "/queue/tracks", `{"id":"`+id+`","title":"T`+id+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(t, srv, http.MethodPost, "/queue/tracks", `{"title":"no id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/queue/current/b", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tr TrackResult
	decode(t, w, &tr)
	require.NotNil(t, tr.Track)
	assert.Equal(t, "b", tr.Track.ID)
	assert.Equal(t, 1, tr.Queue.CurrentIndex)

	w = do(t, srv, http.MethodPost, "/queue/current/zz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/queue/next", "")
	decode(t, w, &tr)
	require.NotNil(t, tr.Track)
	assert.Equal(t, "c", tr.Track.ID)

	tr = TrackResult{}
	w = do(t, srv, http.MethodPost, "/queue/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &tr)
	assert.Nil(t, tr.Track, "next past the end under repeat none")
	assert.Equal(t, 2, tr.Queue.CurrentIndex)

	w = do(t, srv, http.MethodPut, "/queue/repeat", `{"mode":"all"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodPut, "/queue/repeat", `{"mode":"twice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/queue/next", "")
	decode(t, w, &tr)
	require.NotNil(t, tr.Track)
	assert.Equal(t, "a", tr.Track.ID)

	w = do(t, srv, http.MethodPost, "/queue/previous", "")
	decode(t, w, &tr)
	require.NotNil(t, tr.Track)
	assert.Equal(t, "c", tr.Track.ID)

	w = do(t, srv, http.MethodPost, "/queue/shuffle", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap core.QueueSnapshot
	decode(t, w, &snap)
	assert.True(t, snap.Shuffled)
	assert.Equal(t, "c", snap.Tracks[snap.CurrentIndex].ID)

	w = do(t, srv, http.MethodDelete, "/queue/tracks/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodDelete, "/queue/tracks/a", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodDelete, "/queue", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Empty(t, snap.Tracks)
	assert.Equal(t, core.NoTrack, snap.CurrentIndex)

	w = do(t, srv, http.MethodGet, "/queue", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActionRoutes(t *testing.T) {
	srv, session, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/actions/volume", `{"volume":120}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"volume":100}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/actions/volume", `{"delta":-30}`)
	assert.JSONEq(t, `{"volume":70}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/actions/toggle", "")
	assert.JSONEq(t, `{"isPlaying":true}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/actions/repeat", "")
	assert.JSONEq(t, `{"repeatMode":"one"}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/actions/search", `{"query":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/actions/search", `{"query":"lofi"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, session.Snapshot().State.Loading.Search)

	w = do(t, srv, http.MethodPost, "/actions/play", `{"input":"https://youtu.be/dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	cur, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", cur.ID)

	w = do(t, srv, http.MethodPost, "/actions/play/dQw4w9WgXcQ", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, srv, http.MethodPost, "/actions/play/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/actions/stop", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActionBackendFailure(t *testing.T) {
	srv, session, be := newTestServer(t)
	be.err = tberrors.ErrBackendUnavailable

	w := do(t, srv, http.MethodPost, "/actions/next", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "backend unavailable")

	toasts := session.Snapshot().Notifications
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.Error, toasts[0].Level)
}

func TestSettingsRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodPut, "/settings/theme", `{"value":"light"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var rec settings.Record
	decode(t, w, &rec)
	assert.Equal(t, "light", rec.Theme)

	w = do(t, srv, http.MethodPut, "/settings/scale", `{"value":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPut, "/settings/fontSize", `{"value":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/settings", "")
	decode(t, w, &rec)
	assert.Equal(t, "light", rec.Theme)
}

func TestDismissRoute(t *testing.T) {
	srv, session, _ := newTestServer(t)
	session.Notify("hello", notify.Info)
	id := session.Snapshot().Notifications[0].ID

	w := do(t, srv, http.MethodDelete, "/notifications/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, srv, http.MethodDelete, "/notifications/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/message", `{"type":"hide"}`)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tokyobox_bridge_messages_total{type="hide"}`)
}

func preflight(srv *Server, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/message", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := preflight(srv, DefaultOrigin)
	assert.Equal(t, DefaultOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(srv, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// A cross-origin write is refused before it reaches the session.
	req := httptest.NewRequest(http.MethodPut, "/settings/theme", strings.NewReader(`{"value":"light"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Requests without an Origin header, like the CLI's, are served.
	w = do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSConfiguredOrigins(t *testing.T) {
	session, err := overlay.New(overlay.Options{
		Backend:       &stubBackend{},
		Settings:      settings.NewStore(""),
		Notifications: notify.NewCenter(time.Minute),
	})
	require.NoError(t, err)
	t.Cleanup(session.Close)

	srv, err := New(session, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", preflight(srv, "http://localhost:5173").Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusForbidden, preflight(srv, DefaultOrigin).Code)

	srv, err = New(session, Options{AllowedOrigins: []string{"*"}})
	require.NoError(t, err)
	assert.Equal(t, "*", preflight(srv, "https://anything.example").Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestLibraryRoutes(t *testing.T) {
	srv, session, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/library/playlists", `{"name":"Road trip"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, srv, http.MethodPost, "/library/playlists", `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodDelete, "/library/playlists/7", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Nothing is playing, so an empty body has no track to add.
	w = do(t, srv, http.MethodPost, "/library/favorites", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	session.Handle(nui.UpdateTrack{Track: core.Track{ID: "dQw4w9WgXcQ"}})
	w = do(t, srv, http.MethodPost, "/library/favorites", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodPost, "/library/playlists/7/tracks", `{"videoId":"abc"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodDelete, "/library/playlists/7/tracks/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/library/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	var favs []core.Track
	decode(t, w, &favs)
	require.Len(t, favs, 1)
	assert.Equal(t, "fav1", favs[0].ID)

	w = do(t, srv, http.MethodDelete, "/library/favorites/fav1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPlaylistsRoute(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/library/playlists", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/message", `{"type":"playlists","playlists":[{"id":4,"name":"Chill","tracks":[{"id":"a"}]}]}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = do(t, srv, http.MethodGet, "/library/playlists", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lists []core.Playlist
	decode(t, w, &lists)
	require.Len(t, lists, 1)
	assert.Equal(t, int64(4), lists[0].ID)
	assert.Equal(t, 1, lists[0].TrackCount())
}

func TestHostQueuePush(t *testing.T) {
	srv, session, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/message", `{"type":"updateState","state":{"playlist":[{"id":"a"},{"id":"b"}]}}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"handled":true,"changed":true}`, w.Body.String())

	w = do(t, srv, http.MethodGet, "/queue", "")
	require.Equal(t, http.StatusOK, w.Code)
	var q core.QueueSnapshot
	decode(t, w, &q)
	assert.Len(t, q.Tracks, 2)
	assert.Len(t, session.Queue().Tracks, 2)
}

func TestLibraryBackendFailure(t *testing.T) {
	srv, _, be := newTestServer(t)
	be.err = tberrors.ErrBackendUnavailable

	w := do(t, srv, http.MethodGet, "/library/favorites", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
