// File: /models/media.go
package models

import (
	"strings"
	"time"
)

type Media struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	LocationID   uint      `json:"location_id" gorm:"not null;index"`
	Filename     string    `json:"filename" gorm:"not null;size:512"`
	OriginalName string    `json:"original_name" gorm:"not null;size:255"`
	FilePath     string    `json:"file_path" gorm:"size:600"`
	FileType     string    `json:"file_type" gorm:"not null;size:100"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`

	Location *Location `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type MediaResponse struct {
	ID   uint   `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

func NewMediaResponse(m Media) MediaResponse {
	return MediaResponse{
		ID:   m.ID,
		URL:  "/uploads/" + m.Filename,
		Name: m.OriginalName,
		Type: MediaKind(m.FileType),
	}
}

// MediaKind collapses a MIME type to image or video.
func MediaKind(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return MediaTypeImage
	}
	return MediaTypeVideo
}
