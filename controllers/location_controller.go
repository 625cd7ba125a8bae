// File: /controllers/location_controller.go
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/logging"
	"globe-travel-api/middleware"
	"globe-travel-api/models"
	"globe-travel-api/services"
	"globe-travel-api/utils"
)

const invalidLocationID = "Invalid location id"

type LocationController struct {
	locationService *services.LocationService
}

func NewLocationController(locationService *services.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

// GET /api/locations
func (lc *LocationController) List(c *gin.Context) {
	locations, err := lc.locationService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// GET /api/locations/:id
func (lc *LocationController) Get(c *gin.Context) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	location, err := lc.locationService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// POST /api/locations
func (lc *LocationController) Create(c *gin.Context) {
	var req models.CreateLocationRequest
	if !bindJSON(c, &req) {
		return
	}

	location, err := lc.locationService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

// PUT /api/locations/:id
func (lc *LocationController) Update(c *gin.Context) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	var req models.UpdateLocationRequest
	if !bindJSON(c, &req) {
		return
	}

	location, err := lc.locationService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// DELETE /api/locations/:id
func (lc *LocationController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	report, err := lc.locationService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	logging.Info().
		Uint("location_id", id).
		Int("files_removed", len(report.Removed)).
		Int("files_missing", len(report.Missing)).
		Int("files_failed", len(report.Failed)).
		Msg("Location deleted")

	utils.SendMessage(c, "Location deleted successfully")
}

func (lc *LocationController) Like(c *gin.Context) {
	lc.increment(c, "likes")
}

func (lc *LocationController) Dislike(c *gin.Context) {
	lc.increment(c, "dislikes")
}

func (lc *LocationController) Share(c *gin.Context) {
	lc.increment(c, "shares")
}

// increment answers with the counter alone, e.g. {"likes": 3}.
func (lc *LocationController) increment(c *gin.Context, counter string) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	value, err := lc.locationService.Increment(c.Request.Context(), id, counter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{counter: value})
}

// POST /api/locations/:id/checkin
func (lc *LocationController) Checkin(c *gin.Context) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	// An empty body checks in anonymously.
	var req models.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	visitors, err := lc.locationService.Checkin(c.Request.Context(), id, req.Name(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visitors": visitors})
}

// GET /api/locations/:id/visitors
func (lc *LocationController) Visitors(c *gin.Context) {
	id, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	visitors, err := lc.locationService.Visitors(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, visitors)
}
