// File: /models/user.go
package models

import (
	"time"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null;size:255"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone        *string    `json:"phone" gorm:"size:50"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Verified     bool       `json:"verified" gorm:"default:false"`
	OTP          *string    `json:"-" gorm:"column:otp;size:6"`
	OTPExpiresAt *time.Time `json:"-" gorm:"column:otp_expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Session is a server-issued bearer token bound to one user.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null;size:512"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "user_sessions"
}

// Group is a shareable-link namespace with a client-chosen id.
type Group struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

// DTOs

type UserResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SignupRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateGroupRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" binding:"required"`
}
