// File: /controllers/media_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globe-travel-api/logging"
	"globe-travel-api/models"
	"globe-travel-api/repositories"
	"globe-travel-api/services"
	"globe-travel-api/utils"
)

// MaxUploadBody bounds a whole multipart request.
const MaxUploadBody = services.MaxUploadFiles*services.MaxUploadFileSize + 1<<20

type MediaController struct {
	locations *repositories.LocationRepository
	media     *repositories.MediaRepository
	storage   *services.MediaStorage
}

func NewMediaController(locations *repositories.LocationRepository, media *repositories.MediaRepository, storage *services.MediaStorage) *MediaController {
	return &MediaController{
		locations: locations,
		media:     media,
		storage:   storage,
	}
}

// POST /api/media/:locationId
func (mc *MediaController) Upload(c *gin.Context) {
	locationID, ok := parseID(c, "locationId", invalidLocationID)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.SendBadRequest(c, "No files uploaded")
		return
	}

	prepared, err := mc.storage.Validate(form.File["files"])
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := mc.locations.Exists(ctx, locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		utils.SendNotFound(c, "Location not found")
		return
	}

	uploaded := make([]models.MediaResponse, 0, len(prepared))
	for _, f := range prepared {
		filename, err := mc.storage.Save(f)
		if err != nil {
			respondError(c, err)
			return
		}

		media := models.Media{
			LocationID:   locationID,
			Filename:     filename,
			OriginalName: f.Header.Filename,
			FilePath:     "uploads/" + filename,
			FileType:     f.MimeType,
			FileSize:     f.Header.Size,
		}
		if err := mc.media.Create(ctx, &media); err != nil {
			mc.storage.Remove(filename)
			respondError(c, err)
			return
		}
		uploaded = append(uploaded, models.NewMediaResponse(media))
	}

	c.JSON(http.StatusCreated, uploaded)
}

// DELETE /api/media/:id
func (mc *MediaController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid media id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	media, err := mc.media.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if media == nil {
		utils.SendNotFound(c, "Media not found")
		return
	}

	if report := mc.storage.Remove(media.Filename); !report.OK() {
		logging.Warn().Err(report.Failed[media.Filename]).Str("file", media.Filename).Msg("Could not remove media file")
	}

	if err := mc.media.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "Media deleted successfully")
}
