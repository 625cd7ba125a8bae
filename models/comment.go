// File: /models/comment.go
package models

import (
	"time"
)

const AnonymousAuthor = "Anonymous"

type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	LocationID uint      `json:"location_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	Author     string    `json:"author" gorm:"not null;size:255"`
	Timestamp  time.Time `json:"timestamp" gorm:"autoCreateTime"`

	Location *Location `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type CreateCommentRequest struct {
	LocationID uint   `json:"location_id"`
	Text       string `json:"text"`
	Author     string `json:"author"`
}
