package handler

import (
	"net/http"

	"vidstream/internal/middleware"
	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SubscriptionHandler interface {
	Toggle(c *gin.Context)
	Subscribers(c *gin.Context)
	SubscribedChannels(c *gin.Context)
}

type subscriptionHandler struct {
	subscriptionService service.SubscriptionService
	log                 *logrus.Logger
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService, log *logrus.Logger) SubscriptionHandler {
	return &subscriptionHandler{subscriptionService: subscriptionService, log: log}
}

func (h *subscriptionHandler) Toggle(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	subscribed, err := h.subscriptionService.Toggle(c.Request.Context(), userID, c.Param("username"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respond(c, http.StatusOK, gin.H{"subscribed": subscribed}, message)
}

func (h *subscriptionHandler) Subscribers(c *gin.Context) {
	subscribers, err := h.subscriptionService.Subscribers(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, subscribers, "subscribers fetched successfully")
}

func (h *subscriptionHandler) SubscribedChannels(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(int64)

	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, channels, "subscriptions fetched successfully")
}
