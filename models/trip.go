// File: /models/trip.go
package models

import (
	"encoding/json"
	"time"
)

const (
	DefaultTripStatus = "planning"

	RequestTypeAdvice = "advice"
	RequestTypeMedia  = "media"
	RequestTypePosts  = "posts"
)

// Trip stores its referenced locations as the JSON text the client sent.
type Trip struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:255"`
	Description *string   `json:"description" gorm:"type:text"`
	StartDate   *string   `json:"start_date" gorm:"size:10"`
	EndDate     *string   `json:"end_date" gorm:"size:10"`
	Locations   *string   `json:"locations" gorm:"type:text"`
	Author      string    `json:"author" gorm:"size:255"`
	Status      string    `json:"status" gorm:"size:50;default:'planning'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Trip) TableName() string {
	return "trip_plans"
}

type TripRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TripPlanID  uint      `json:"trip_plan_id" gorm:"not null;index"`
	RequestType string    `json:"request_type" gorm:"not null;size:20"`
	LocationID  *uint     `json:"location_id"`
	Message     *string   `json:"message" gorm:"type:text"`
	Author      string    `json:"author" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`

	Trip *Trip `json:"-" gorm:"foreignKey:TripPlanID;constraint:OnDelete:CASCADE"`
}

type TripResponse struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RequestID    uint      `json:"request_id" gorm:"not null;index"`
	Author       string    `json:"author" gorm:"size:255"`
	ResponseType string    `json:"response_type" gorm:"not null;size:50"`
	Content      *string   `json:"content" gorm:"type:text"`
	MediaID      *uint     `json:"media_id"`
	CreatedAt    time.Time `json:"created_at"`

	Request *TripRequest `json:"-" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TripDetail is the two-level aggregate returned by GET /trips/:id.
type TripDetail struct {
	Trip
	Requests []TripRequestThread `json:"requests"`
}

type TripRequestThread struct {
	TripRequest
	Responses []TripResponse `json:"responses"`
}

type CreateTripRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	StartDate   *string         `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	Locations   json.RawMessage `json:"locations"`
	Author      string          `json:"author"`
	Status      string          `json:"status"`
}

type UpdateTripRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	StartDate   *string         `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	Locations   json.RawMessage `json:"locations"`
	Status      *string         `json:"status"`
}

type CreateTripRequestRequest struct {
	RequestType string  `json:"request_type"`
	LocationID  *uint   `json:"location_id"`
	Message     *string `json:"message"`
	Author      string  `json:"author"`
}

type CreateTripResponseRequest struct {
	Author       string  `json:"author"`
	ResponseType string  `json:"response_type"`
	Content      *string `json:"content"`
	MediaID      *uint   `json:"media_id"`
}
