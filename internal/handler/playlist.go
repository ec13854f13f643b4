package handler

import (
	"net/http"
	"strconv"

	"vidstream/internal/apierror"
	"vidstream/internal/middleware"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PlaylistHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListOwn(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type playlistHandler struct {
	playlistService service.PlaylistService
	log             *logrus.Logger
}

func NewPlaylistHandler(playlistService service.PlaylistService, log *logrus.Logger) PlaylistHandler {
	return &playlistHandler{playlistService: playlistService, log: log}
}

type PlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h *playlistHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apierror.Validation("name and description are required"))
		return
	}

	playlist, err := h.playlistService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *playlistHandler) Get(c *gin.Context) {
	id, err := playlistID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	playlist, err := h.playlistService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *playlistHandler) ListOwn(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	playlists, err := h.playlistService.ListOwn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, playlists, "playlists fetched successfully")
}

func (h *playlistHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	id, err := playlistID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req PlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apierror.Validation("name and description are required"))
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), id, userID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *playlistHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	id, err := playlistID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, nil, "playlist deleted successfully")
}

func playlistID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.Validation("invalid playlist id")
	}
	return id, nil
}
