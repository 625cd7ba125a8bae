// File: /controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/services"
	"globe-travel-api/utils"
)

// respondError maps service errors to client responses. Anything unknown
// goes to the error middleware as a 500.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var upload *services.UploadError

	switch {
	case errors.As(err, &validation):
		utils.SendBadRequest(c, validation.Message)
	case errors.As(err, &upload):
		utils.SendBadRequest(c, upload.Message)
	case errors.Is(err, services.ErrLocationNotFound):
		utils.SendNotFound(c, "Location not found")
	case errors.Is(err, services.ErrTripNotFound):
		utils.SendNotFound(c, "Trip plan not found")
	case errors.Is(err, services.ErrRequestNotFound):
		utils.SendNotFound(c, "Trip request not found")
	default:
		utils.SendInternal(c, err)
	}
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func parseID(c *gin.Context, name, message string) (uint, bool) {
	id, ok := utils.ParseID(c, name)
	if !ok {
		utils.SendBadRequest(c, message)
	}
	return id, ok
}
