// File: /models/advice.go
package models

import (
	"time"
)

const DefaultAdviceTitle = "Travel Advice"

type Advice struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null;size:255"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Author     *string   `json:"author" gorm:"size:255"`
	LocationID *uint     `json:"location_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`

	Location *Location `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

func (Advice) TableName() string {
	return "advice"
}

// CreateAdviceRequest accepts the body under either "text" or "content".
type CreateAdviceRequest struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	LocationID *uint  `json:"location_id"`
}

func (r CreateAdviceRequest) Body() string {
	if r.Text != "" {
		return r.Text
	}
	return r.Content
}
