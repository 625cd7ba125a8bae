// File: /services/session_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"globe-travel-api/database"
	"globe-travel-api/models"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService issues HS256 bearer tokens and backs each one with a
// user_sessions row, so a token is only valid while its row exists.
type SessionService struct {
	store  database.Store
	secret []byte
	ttl    time.Duration
	now    Clock
}

func NewSessionService(store database.Store, secret string, ttl time.Duration) *SessionService {
	return &SessionService{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *SessionService) SetClock(clock Clock) {
	s.now = clock
}

// Now is the clock shared by session and OTP expiry checks.
func (s *SessionService) Now() time.Time {
	return s.now()
}

func (s *SessionService) Issue(userID uint) (*models.Session, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.DB().Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Validate checks the signature and expiry, then requires a live session row.
func (s *SessionService) Validate(token string) (*models.User, *models.Session, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, nil, ErrInvalidSession
	}

	var session models.Session
	result := s.store.DB().Where("token = ? AND expires_at > ?", token, s.now()).Limit(1).Find(&session)
	if result.Error != nil {
		return nil, nil, result.Error
	}
	if result.RowsAffected == 0 || strconv.FormatUint(uint64(session.UserID), 10) != claims.Subject {
		return nil, nil, ErrInvalidSession
	}

	var user models.User
	result = s.store.DB().Limit(1).Find(&user, session.UserID)
	if result.Error != nil {
		return nil, nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil, ErrInvalidSession
	}
	return &user, &session, nil
}

func (s *SessionService) Revoke(token string) error {
	return s.store.DB().Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions past their expiry and returns how many went.
func (s *SessionService) DeleteExpired() (int64, error) {
	result := s.store.DB().Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

// ClearExpiredOTPs drops stale codes of users that never verified.
func (s *SessionService) ClearExpiredOTPs() (int64, error) {
	result := s.store.DB().Model(&models.User{}).
		Where("verified = ? AND otp_expires_at IS NOT NULL AND otp_expires_at <= ?", false, s.now()).
		Updates(map[string]interface{}{"otp": nil, "otp_expires_at": nil})
	return result.RowsAffected, result.Error
}
