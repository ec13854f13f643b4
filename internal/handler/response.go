package handler

import (
	"net/http"

	"vidstream/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// envelope is the uniform response shape. Clients branch on the success
// flag; failures carry only a client-safe message.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, log *logrus.Logger, err error) {
	apiErr := apierror.From(err)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(apiErr.Status, envelope{Success: false, Message: apiErr.Message})
}
