package handler

import (
	"net/http"

	"vidstream/internal/apierror"
	"vidstream/internal/middleware"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler interface {
	Me(c *gin.Context)
	UpdateAccount(c *gin.Context)
	UpdateAvatar(c *gin.Context)
	UpdateCoverImage(c *gin.Context)
	ChannelProfile(c *gin.Context)
}

type userHandler struct {
	userService service.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService service.UserService, log *logrus.Logger) UserHandler {
	return &userHandler{userService: userService, log: log}
}

func (h *userHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, user, "current user fetched successfully")
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func (h *userHandler) UpdateAccount(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apierror.Validation("all fields are required"))
		return
	}

	user, err := h.userService.UpdateAccount(c.Request.Context(), userID, req.FullName, req.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, user, "account details updated successfully")
}

func (h *userHandler) UpdateAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	avatarPath, err := saveTempFile(c, "avatar")
	if err != nil {
		respondError(c, h.log, apierror.Validation("avatar file is required"))
		return
	}
	defer removeTempFile(avatarPath)

	user, err := h.userService.UpdateAvatar(c.Request.Context(), userID, avatarPath)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, user, "avatar updated successfully")
}

func (h *userHandler) UpdateCoverImage(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	coverImagePath, err := saveTempFile(c, "coverImage")
	if err != nil {
		respondError(c, h.log, apierror.Validation("cover image file is required"))
		return
	}
	defer removeTempFile(coverImagePath)

	user, err := h.userService.UpdateCoverImage(c.Request.Context(), userID, coverImagePath)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, user, "cover image updated successfully")
}

func (h *userHandler) ChannelProfile(c *gin.Context) {
	viewerID := c.MustGet(middleware.CtxUserID).(int64)

	profile, err := h.userService.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, profile, "channel profile fetched successfully")
}
