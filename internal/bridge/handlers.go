package bridge

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/nui"
)

// maxMessageSize bounds a single pushed message.
const maxMessageSize = 1 << 20

// MessageResult is the response to POST /message.
type MessageResult struct {
	Handled bool `json:"handled"`
	Changed bool `json:"changed"`
}

// TrackResult is the response to cursor-moving routes.
type TrackResult struct {
	Track *core.Track        `json:"track"`
	Queue core.QueueSnapshot `json:"queue"`
}

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// actionError maps a relay failure to a status code.
func actionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tberrors.ErrInvalidInput):
		errorJSON(c, http.StatusBadRequest, err)
	default:
		errorJSON(c, http.StatusBadGateway, err)
	}
}

// State push

func (s *Server) handleMessage(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMessageSize))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	msg, err := nui.Decode(body)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	messagesTotal.WithLabelValues(messageLabel(msg)).Inc()

	handled, changed := s.session.Handle(msg)
	c.JSON(http.StatusAccepted, MessageResult{Handled: handled, Changed: changed})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

// Queue commands

func (s *Server) handleQueue(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Queue())
}

func (s *Server) handleClearQueue(c *gin.Context) {
	s.session.ClearQueue()
	c.JSON(http.StatusOK, s.session.Queue())
}

func (s *Server) handleAddTrack(c *gin.Context) {
	var t core.Track
	if err := c.ShouldBindJSON(&t); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if !s.session.AddTrack(t) {
		errorJSON(c, http.StatusBadRequest, tberrors.Invalid("track id is required"))
		return
	}
	c.JSON(http.StatusCreated, s.session.Queue())
}

func (s *Server) handleRemoveTrack(c *gin.Context) {
	id := c.Param("id")
	if !s.session.RemoveTrack(id) {
		errorJSON(c, http.StatusNotFound, tberrors.Invalid("track %q is not in the queue", id))
		return
	}
	c.JSON(http.StatusOK, s.session.Queue())
}

func (s *Server) handleSetCurrent(c *gin.Context) {
	id := c.Param("id")
	if !s.session.SetCurrent(id) {
		errorJSON(c, http.StatusNotFound, tberrors.Invalid("track %q is not in the queue", id))
		return
	}
	s.respondTrack(c, s.session.Current)
}

func (s *Server) handleQueueNext(c *gin.Context) {
	s.respondTrack(c, s.session.QueueNext)
}

func (s *Server) handleQueuePrevious(c *gin.Context) {
	s.respondTrack(c, s.session.QueuePrevious)
}

// respondTrack runs a cursor move and reports the resulting track, or a
// null track when the move had nothing to return.
func (s *Server) respondTrack(c *gin.Context, move func() (core.Track, bool)) {
	res := TrackResult{}
	if t, ok := move(); ok {
		res.Track = &t
	}
	res.Queue = s.session.Queue()
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleQueueShuffle(c *gin.Context) {
	s.session.QueueToggleShuffle()
	c.JSON(http.StatusOK, s.session.Queue())
}

type repeatRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func (s *Server) handleSetRepeat(c *gin.Context) {
	var req repeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if !s.session.SetRepeatMode(req.Mode) {
		errorJSON(c, http.StatusBadRequest, tberrors.Invalid("repeat mode must be none, one or all"))
		return
	}
	c.JSON(http.StatusOK, s.session.Queue())
}

// Action relays

func (s *Server) handleNext(c *gin.Context) {
	t, ok, err := s.session.Next(c.Request.Context())
	s.respondRelay(c, t, ok, err)
}

func (s *Server) handlePrevious(c *gin.Context) {
	t, ok, err := s.session.Previous(c.Request.Context())
	s.respondRelay(c, t, ok, err)
}

func (s *Server) respondRelay(c *gin.Context, t core.Track, ok bool, err error) {
	if err != nil {
		actionError(c, err)
		return
	}
	res := TrackResult{Queue: s.session.Queue()}
	if ok {
		res.Track = &t
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleToggleShuffle(c *gin.Context) {
	on, err := s.session.ToggleShuffle(c.Request.Context())
	if err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shuffle": on})
}

func (s *Server) handleCycleRepeat(c *gin.Context) {
	mode, err := s.session.CycleRepeat(c.Request.Context())
	if err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repeatMode": mode})
}

func (s *Server) handleTogglePlayback(c *gin.Context) {
	playing, err := s.session.TogglePlayback(c.Request.Context())
	if err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPlaying": playing})
}

func (s *Server) handleStop(c *gin.Context) {
	if err := s.session.Stop(c.Request.Context()); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPlaying": false})
}

type volumeRequest struct {
	Volume *int `json:"volume"`
	Delta  int  `json:"delta"`
}

func (s *Server) handleVolume(c *gin.Context) {
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	var (
		volume int
		err    error
	)
	if req.Volume != nil {
		volume, err = s.session.SetVolume(c.Request.Context(), *req.Volume)
	} else {
		volume, err = s.session.AdjustVolume(c.Request.Context(), req.Delta)
	}
	if err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"volume": volume})
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Search(c.Request.Context(), req.Query); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"query": req.Query})
}

type playRequest struct {
	Input string `json:"input"`
}

func (s *Server) handlePlay(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Play(c.Request.Context(), req.Input); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, s.session.Queue())
}

func (s *Server) handlePlayTrack(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.findTrack(id); !ok {
		errorJSON(c, http.StatusNotFound, tberrors.Invalid("track %q is not in the queue", id))
		return
	}
	if err := s.session.PlayTrack(c.Request.Context(), id); err != nil {
		actionError(c, err)
		return
	}
	s.respondTrack(c, s.session.Current)
}

func (s *Server) findTrack(id string) (core.Track, bool) {
	for _, t := range s.session.Queue().Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return core.Track{}, false
}

// Settings and notifications

func (s *Server) handleSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Settings().All())
}

type settingRequest struct {
	Value interface{} `json:"value"`
}

func (s *Server) handleUpdateSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	err := s.session.UpdateSetting(c.Request.Context(), c.Param("key"), req.Value)
	switch {
	case errors.Is(err, tberrors.ErrUnknownSetting):
		errorJSON(c, http.StatusNotFound, err)
	case errors.Is(err, tberrors.ErrInvalidSetting):
		errorJSON(c, http.StatusBadRequest, err)
	case err != nil:
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
	default:
		c.JSON(http.StatusOK, s.session.Settings().All())
	}
}

func (s *Server) handleDismiss(c *gin.Context) {
	if !s.session.Dismiss(c.Param("id")) {
		errorJSON(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
