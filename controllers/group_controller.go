// File: /controllers/group_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"globe-travel-api/database"
	"globe-travel-api/middleware"
	"globe-travel-api/models"
	"globe-travel-api/utils"
)

type GroupController struct {
	store database.Store
}

func NewGroupController(store database.Store) *GroupController {
	return &GroupController{store: store}
}

// POST /api/groups
func (gc *GroupController) Create(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "Group name is required")
		return
	}

	name := utils.SanitizeText(req.Name)
	if name == "" {
		utils.SendBadRequest(c, "Group name is required")
		return
	}

	id := req.ID
	if id == "" {
		id = "group-" + uuid.NewString()
	}
	if !utils.IsSafeFilename(id) || len(id) > 191 {
		utils.SendBadRequest(c, "Invalid group id")
		return
	}

	group := models.Group{
		ID:        id,
		Name:      name,
		CreatedBy: middleware.CurrentUserID(c),
	}
	if err := gc.store.DB().WithContext(c.Request.Context()).Create(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.SendBadRequest(c, "Group already exists")
			return
		}
		utils.SendInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// GET /api/groups/:id
func (gc *GroupController) Get(c *gin.Context) {
	var group models.Group
	result := gc.store.DB().WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		Limit(1).
		Find(&group)
	if result.Error != nil {
		utils.SendInternal(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.SendNotFound(c, "Group not found")
		return
	}
	c.JSON(http.StatusOK, group)
}
