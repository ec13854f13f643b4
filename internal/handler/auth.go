package handler

import (
	"net/http"
	"time"

	"vidstream/internal/apierror"
	"vidstream/internal/middleware"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Refresh(c *gin.Context)
	Logout(c *gin.Context)
	ChangePassword(c *gin.Context)
}

type authHandler struct {
	authService   service.AuthService
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
	log           *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, accessTTL, refreshTTL time.Duration, secureCookies bool, log *logrus.Logger) AuthHandler {
	return &authHandler{
		authService:   authService,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
		log:           log,
	}
}

func (h *authHandler) Register(c *gin.Context) {
	avatarPath, err := saveTempFile(c, "avatar")
	if err != nil {
		respondError(c, h.log, apierror.Validation("avatar is required"))
		return
	}
	defer removeTempFile(avatarPath)

	// Cover image is optional.
	coverImagePath, err := saveTempFile(c, "coverImage")
	if err == nil {
		defer removeTempFile(coverImagePath)
	} else {
		coverImagePath = ""
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		FullName:       c.PostForm("fullName"),
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverImagePath,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apierror.Validation("password is required"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)
	respond(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}, "login successful")
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *authHandler) Refresh(c *gin.Context) {
	presented, err := c.Cookie(refreshTokenCookie)
	if err != nil || presented == "" {
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		presented = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.Request.Context(), presented)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setAuthCookies(c, *pair)
	respond(c, http.StatusOK, pair, "tokens refreshed")
}

func (h *authHandler) Logout(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "logout successful")
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h *authHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apierror.Validation("old and new password are required"))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *authHandler) setAuthCookies(c *gin.Context, pair service.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, int(h.accessTTL.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, int(h.refreshTTL.Seconds()), "/", "", h.secureCookies, true)
}

func (h *authHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.secureCookies, true)
}
