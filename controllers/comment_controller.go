// File: /controllers/comment_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/database"
	"globe-travel-api/models"
	"globe-travel-api/repositories"
	"globe-travel-api/utils"
)

type CommentController struct {
	store     database.Store
	locations *repositories.LocationRepository
}

func NewCommentController(store database.Store, locations *repositories.LocationRepository) *CommentController {
	return &CommentController{
		store:     store,
		locations: locations,
	}
}

// GET /api/comments/location/:id
func (cc *CommentController) ListByLocation(c *gin.Context) {
	locationID, ok := parseID(c, "id", invalidLocationID)
	if !ok {
		return
	}

	comments := []models.Comment{}
	err := cc.store.DB().WithContext(c.Request.Context()).
		Where("location_id = ?", locationID).
		Order("timestamp DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		utils.SendInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// POST /api/comments
func (cc *CommentController) Create(c *gin.Context) {
	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	text := utils.SanitizeText(req.Text)
	if req.LocationID == 0 || text == "" {
		utils.SendBadRequest(c, "location_id and text are required")
		return
	}

	ctx := c.Request.Context()
	exists, err := cc.locations.Exists(ctx, req.LocationID)
	if err != nil {
		utils.SendInternal(c, err)
		return
	}
	if !exists {
		utils.SendNotFound(c, "Location not found")
		return
	}

	comment := models.Comment{
		LocationID: req.LocationID,
		Text:       text,
		Author:     utils.StringOr(utils.SanitizeText(req.Author), models.AnonymousAuthor),
	}
	if err := cc.store.DB().WithContext(ctx).Create(&comment).Error; err != nil {
		utils.SendInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DELETE /api/comments/:id succeeds whether or not the comment existed.
func (cc *CommentController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid comment id")
	if !ok {
		return
	}

	if err := cc.store.DB().WithContext(c.Request.Context()).Delete(&models.Comment{}, id).Error; err != nil {
		utils.SendInternal(c, err)
		return
	}
	utils.SendMessage(c, "Comment deleted successfully")
}
