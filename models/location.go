// File: /models/location.go
package models

import (
	"strings"
	"time"
)

type Location struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255"`
	Note        string     `json:"note" gorm:"type:text"`
	Lat         float64    `json:"lat" gorm:"not null"`
	Lon         float64    `json:"lon" gorm:"not null"`
	PositionX   float64    `json:"position_x" gorm:"column:position_x;not null"`
	PositionY   float64    `json:"position_y" gorm:"column:position_y;not null"`
	PositionZ   float64    `json:"position_z" gorm:"column:position_z;not null"`
	Likes       int        `json:"likes" gorm:"not null;default:0"`
	Dislikes    int        `json:"dislikes" gorm:"not null;default:0"`
	Shares      int        `json:"shares" gorm:"not null;default:0"`
	Visitors    int        `json:"visitors" gorm:"not null;default:0"`
	SocialLinks StringList `json:"social_links"`
	PaypalLink  *string    `json:"paypal_link" gorm:"size:500"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LocationVisitor is one row of the append-only check-in log.
type LocationVisitor struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	LocationID  uint      `json:"location_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id"`
	VisitorName string    `json:"visitor_name" gorm:"size:255"`
	VisitedAt   time.Time `json:"visited_at" gorm:"autoCreateTime"`

	Location *Location `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// LocationStats carries the aggregate join columns of the list query.
type LocationStats struct {
	Location
	MediaCount   int `json:"media_count"`
	CommentCount int `json:"comment_count"`
}

// LocationResponse is the reshaped document returned by every location endpoint.
type LocationResponse struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Note         string          `json:"note"`
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
	Position     [3]float64      `json:"position"`
	Likes        int             `json:"likes"`
	Dislikes     int             `json:"dislikes"`
	Shares       int             `json:"shares"`
	Visitors     int             `json:"visitors"`
	SocialLinks  StringList      `json:"social_links"`
	PaypalLink   *string         `json:"paypal_link"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	MediaCount   int             `json:"media_count"`
	CommentCount int             `json:"comment_count"`
	Media        []MediaResponse `json:"media"`
	Comments     []Comment       `json:"comments"`
}

func NewLocationResponse(loc Location, media []Media, comments []Comment) LocationResponse {
	resp := LocationResponse{
		ID:           loc.ID,
		Title:        loc.Title,
		Note:         loc.Note,
		Lat:          loc.Lat,
		Lon:          loc.Lon,
		Position:     [3]float64{loc.PositionX, loc.PositionY, loc.PositionZ},
		Likes:        loc.Likes,
		Dislikes:     loc.Dislikes,
		Shares:       loc.Shares,
		Visitors:     loc.Visitors,
		SocialLinks:  loc.SocialLinks,
		PaypalLink:   loc.PaypalLink,
		CreatedAt:    loc.CreatedAt,
		UpdatedAt:    loc.UpdatedAt,
		MediaCount:   len(media),
		CommentCount: len(comments),
		Media:        make([]MediaResponse, 0, len(media)),
		Comments:     comments,
	}
	if resp.Comments == nil {
		resp.Comments = []Comment{}
	}
	for _, m := range media {
		resp.Media = append(resp.Media, NewMediaResponse(m))
	}
	return resp
}

// CreateLocationRequest keeps lat/lon/position loosely typed so that
// non-numeric input can be reported with the right message.
type CreateLocationRequest struct {
	Title       string        `json:"title"`
	Note        string        `json:"note"`
	Lat         interface{}   `json:"lat"`
	Lon         interface{}   `json:"lon"`
	Position    []interface{} `json:"position"`
	SocialLinks []string      `json:"social_links"`
	PaypalLink  *string       `json:"paypal_link"`
}

// UpdateLocationRequest is a partial update; nil fields are left untouched.
type UpdateLocationRequest struct {
	Title    *string `json:"title"`
	Note     *string `json:"note"`
	Likes    *int    `json:"likes"`
	Dislikes *int    `json:"dislikes"`
	Shares   *int    `json:"shares"`
}

type CheckinRequest struct {
	VisitorName string `json:"visitor_name"`
}

func (r CheckinRequest) Name() string {
	if name := strings.TrimSpace(r.VisitorName); name != "" {
		return name
	}
	return AnonymousAuthor
}
