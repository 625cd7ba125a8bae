package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Message codes shown to end users.
const (
	CodeNetworkError       = "NETWORK_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeServerError        = "SERVER_ERROR"
	CodeTimeoutError       = "TIMEOUT_ERROR"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeOTPInvalid         = "OTP_INVALID"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeInvalidFileType    = "INVALID_FILE_TYPE"
	CodeLocationNotFound   = "LOCATION_NOT_FOUND"
	CodeMediaUploadFailed  = "MEDIA_UPLOAD_FAILED"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeRateLimited        = "RATE_LIMITED"
)

// Messages is the English text for each message code.
var Messages = map[string]string{
	CodeNetworkError:       "Network error. Please check your connection.",
	CodeUnauthorized:       "You are not authorized to perform this action.",
	CodeNotFound:           "The requested resource was not found.",
	CodeValidationError:    "Please check your input and try again.",
	CodeServerError:        "Server error. Please try again later.",
	CodeTimeoutError:       "Request timed out. Please try again.",
	CodeInvalidToken:       "Invalid or expired token.",
	CodeEmailExists:        "An account with this email already exists.",
	CodeInvalidCredentials: "Invalid email or password.",
	CodeOTPExpired:         "OTP has expired. Please request a new one.",
	CodeOTPInvalid:         "Invalid OTP code.",
	CodeFileTooLarge:       "File size exceeds the maximum limit.",
	CodeInvalidFileType:    "Invalid file type. Please upload an image or video.",
	CodeLocationNotFound:   "Location not found.",
	CodeMediaUploadFailed:  "Failed to upload media. Please try again.",
	CodeDatabaseError:      "Database error occurred.",
	CodePermissionDenied:   "You do not have permission to perform this action.",
	CodeRateLimited:        "Too many requests. Please try again later.",
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Message    string
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// NetworkError means no HTTP answer was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) StatusCode() int { return 0 }

// TimeoutError means the request outlived the client timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "request timed out: " + e.Err.Error()
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) StatusCode() int { return http.StatusRequestTimeout }

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodePermissionDenied
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusRequestEntityTooLarge:
		return CodeFileTooLarge
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= http.StatusInternalServerError:
		return CodeServerError
	default:
		return CodeValidationError
	}
}

// UserMessage is the text to show for err. Server errors keep the server's
// own message; transport failures get a generic one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	var timeoutErr *TimeoutError
	var networkErr *NetworkError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return Messages[apiErr.Code]
	case errors.As(err, &timeoutErr):
		return Messages[CodeTimeoutError]
	case errors.As(err, &networkErr):
		return Messages[CodeNetworkError]
	default:
		return Messages[CodeServerError]
	}
}
