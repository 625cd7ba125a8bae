// File: /controllers/advice_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/database"
	"globe-travel-api/models"
	"globe-travel-api/repositories"
	"globe-travel-api/utils"
)

type AdviceController struct {
	store     database.Store
	locations *repositories.LocationRepository
}

func NewAdviceController(store database.Store, locations *repositories.LocationRepository) *AdviceController {
	return &AdviceController{
		store:     store,
		locations: locations,
	}
}

// GET /api/advice
func (ac *AdviceController) List(c *gin.Context) {
	advice := []models.Advice{}
	err := ac.store.DB().WithContext(c.Request.Context()).
		Order("created_at DESC, id DESC").
		Find(&advice).Error
	if err != nil {
		utils.SendInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, advice)
}

// POST /api/advice
func (ac *AdviceController) Create(c *gin.Context) {
	var req models.CreateAdviceRequest
	if !bindJSON(c, &req) {
		return
	}

	body := utils.SanitizeText(req.Body())
	if body == "" {
		utils.SendBadRequest(c, "text or content is required")
		return
	}

	ctx := c.Request.Context()
	if req.LocationID != nil {
		exists, err := ac.locations.Exists(ctx, *req.LocationID)
		if err != nil {
			utils.SendInternal(c, err)
			return
		}
		if !exists {
			utils.SendNotFound(c, "Location not found")
			return
		}
	}

	author := utils.StringOr(utils.SanitizeText(req.Author), models.AnonymousAuthor)
	advice := models.Advice{
		Title:      utils.StringOr(utils.SanitizeText(req.Title), models.DefaultAdviceTitle),
		Content:    body,
		Author:     &author,
		LocationID: req.LocationID,
	}
	if err := ac.store.DB().WithContext(ctx).Create(&advice).Error; err != nil {
		utils.SendInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, advice)
}

// DELETE /api/advice/:id
func (ac *AdviceController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid advice id")
	if !ok {
		return
	}

	if err := ac.store.DB().WithContext(c.Request.Context()).Delete(&models.Advice{}, id).Error; err != nil {
		utils.SendInternal(c, err)
		return
	}
	utils.SendMessage(c, "Advice deleted successfully")
}
