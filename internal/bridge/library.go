package bridge

import (
	"net/http"

	"github.com/gin-gonic/gin"

	tberrors "github.com/tessro/tokyobox/internal/errors"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type videoRequest struct {
	VideoID string `json:"videoId"`
}

func (s *Server) handlePlaylists(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Playlists())
}

func (s *Server) handleCreatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		errorJSON(c, http.StatusBadRequest, tberrors.Invalid("playlist name is required"))
		return
	}
	if err := s.session.CreatePlaylist(c.Request.Context(), req.Name, req.Description); err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

func (s *Server) handleDeletePlaylist(c *gin.Context) {
	if err := s.session.DeletePlaylist(c.Request.Context(), c.Param("id")); err != nil {
		actionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindVideo reads an optional {videoId} body. An empty body means the
// current track.
func bindVideo(c *gin.Context) (string, bool) {
	var req videoRequest
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return "", false
	}
	return req.VideoID, true
}

func (s *Server) handleAddToPlaylist(c *gin.Context) {
	videoID, ok := bindVideo(c)
	if !ok {
		return
	}
	if err := s.session.AddToPlaylist(c.Request.Context(), c.Param("id"), videoID); err != nil {
		actionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveFromPlaylist(c *gin.Context) {
	if err := s.session.RemoveFromPlaylist(c.Request.Context(), c.Param("id"), c.Param("trackId")); err != nil {
		actionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFavorites(c *gin.Context) {
	favs, err := s.session.Favorites(c.Request.Context())
	if err != nil {
		actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	videoID, ok := bindVideo(c)
	if !ok {
		return
	}
	if err := s.session.AddFavorite(c.Request.Context(), videoID); err != nil {
		actionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	if err := s.session.RemoveFavorite(c.Request.Context(), c.Param("id")); err != nil {
		actionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
