// File: /controllers/trip_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/models"
	"globe-travel-api/services"
	"globe-travel-api/utils"
)

const invalidTripID = "Invalid trip id"

type TripController struct {
	tripService *services.TripService
}

func NewTripController(tripService *services.TripService) *TripController {
	return &TripController{tripService: tripService}
}

// GET /api/trips
func (tc *TripController) List(c *gin.Context) {
	trips, err := tc.tripService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
func (tc *TripController) Get(c *gin.Context) {
	id, ok := parseID(c, "id", invalidTripID)
	if !ok {
		return
	}

	detail, err := tc.tripService.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// POST /api/trips
func (tc *TripController) Create(c *gin.Context) {
	var req models.CreateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := tc.tripService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// PUT /api/trips/:id
func (tc *TripController) Update(c *gin.Context) {
	id, ok := parseID(c, "id", invalidTripID)
	if !ok {
		return
	}

	var req models.UpdateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := tc.tripService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DELETE /api/trips/:id
func (tc *TripController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", invalidTripID)
	if !ok {
		return
	}

	if err := tc.tripService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "Trip plan deleted successfully")
}

// POST /api/trips/:id/requests
func (tc *TripController) AddRequest(c *gin.Context) {
	id, ok := parseID(c, "id", invalidTripID)
	if !ok {
		return
	}

	var req models.CreateTripRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := tc.tripService.AddRequest(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// POST /api/trips/requests/:requestId/responses
func (tc *TripController) AddResponse(c *gin.Context) {
	requestID, ok := parseID(c, "requestId", "Invalid request id")
	if !ok {
		return
	}

	var req models.CreateTripResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := tc.tripService.AddResponse(c.Request.Context(), requestID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}
