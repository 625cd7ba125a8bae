// File: /utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{Error: err})
}

func SendBadRequest(c *gin.Context, err string) {
	SendError(c, http.StatusBadRequest, err)
}

func SendNotFound(c *gin.Context, err string) {
	SendError(c, http.StatusNotFound, err)
}

func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// SendInternal hands err to the error middleware and stops the chain.
func SendInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
