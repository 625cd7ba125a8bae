// File: /utils/validators.go
package utils

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpRegex   = regexp.MustCompile(`^\d{6}$`)
)

const MinPasswordLength = 6

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

func IsValidOTP(code string) bool {
	return otpRegex.MatchString(code)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// IsValidURL accepts absolute http and https URLs only.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsValidDate checks a YYYY-MM-DD calendar date.
func IsValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// NormalizeEmail trims and lowercases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSafeFilename rejects path traversal and overlong upload names.
func IsSafeFilename(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
