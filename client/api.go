package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"globe-travel-api/models"
)

// UploadFile is one file of a media upload.
type UploadFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

type SignupResult struct {
	Message   string `json:"message"`
	UserID    uint   `json:"userId"`
	DebugCode string `json:"debug_code,omitempty"`
}

type HealthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
}

// Locations

func (c *Client) ListLocations(ctx context.Context) ([]models.LocationResponse, error) {
	var out []models.LocationResponse
	err := c.doJSON(ctx, http.MethodGet, "/locations", nil, &out)
	return out, err
}

func (c *Client) GetLocation(ctx context.Context, id uint) (*models.LocationResponse, error) {
	var out models.LocationResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/locations/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLocation(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error) {
	var out models.LocationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/locations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLocation(ctx context.Context, id uint, req models.UpdateLocationRequest) (*models.LocationResponse, error) {
	var out models.LocationResponse
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/locations/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLocation(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/locations/%d", id), nil, nil)
}

func (c *Client) LikeLocation(ctx context.Context, id uint) (int, error) {
	return c.counter(ctx, id, "like", "likes")
}

func (c *Client) DislikeLocation(ctx context.Context, id uint) (int, error) {
	return c.counter(ctx, id, "dislike", "dislikes")
}

func (c *Client) ShareLocation(ctx context.Context, id uint) (int, error) {
	return c.counter(ctx, id, "share", "shares")
}

func (c *Client) counter(ctx context.Context, id uint, action, field string) (int, error) {
	var out map[string]int
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/locations/%d/%s", id, action), nil, &out); err != nil {
		return 0, err
	}
	return out[field], nil
}

func (c *Client) CheckIn(ctx context.Context, id uint, visitorName string) (int, error) {
	var out struct {
		Visitors int `json:"visitors"`
	}
	in := models.CheckinRequest{VisitorName: visitorName}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/locations/%d/checkin", id), in, &out); err != nil {
		return 0, err
	}
	return out.Visitors, nil
}

func (c *Client) Visitors(ctx context.Context, id uint) ([]models.LocationVisitor, error) {
	var out []models.LocationVisitor
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/locations/%d/visitors", id), nil, &out)
	return out, err
}

// Media

// UploadMedia sends all files in one multipart request under the "files"
// field.
func (c *Client) UploadMedia(ctx context.Context, locationID uint, files ...UploadFile) ([]models.MediaResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, &APIError{Message: Messages[CodeMediaUploadFailed], Code: CodeMediaUploadFailed, StatusCode: http.StatusInternalServerError}
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, &APIError{Message: Messages[CodeMediaUploadFailed], Code: CodeMediaUploadFailed, StatusCode: http.StatusInternalServerError}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out []models.MediaResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/media/%d", locationID), mw.FormDataContentType(), &buf, &out)
	return out, err
}

func (c *Client) DeleteMedia(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/media/%d", id), nil, nil)
}

// Comments and advice

func (c *Client) Comments(ctx context.Context, locationID uint) ([]models.Comment, error) {
	var out []models.Comment
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/comments/location/%d", locationID), nil, &out)
	return out, err
}

func (c *Client) AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	var out models.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

func (c *Client) Advice(ctx context.Context) ([]models.Advice, error) {
	var out []models.Advice
	err := c.doJSON(ctx, http.MethodGet, "/advice", nil, &out)
	return out, err
}

func (c *Client) AddAdvice(ctx context.Context, req models.CreateAdviceRequest) (*models.Advice, error) {
	var out models.Advice
	if err := c.doJSON(ctx, http.MethodPost, "/advice", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAdvice(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/advice/%d", id), nil, nil)
}

// Trips

func (c *Client) Trips(ctx context.Context) ([]models.Trip, error) {
	var out []models.Trip
	err := c.doJSON(ctx, http.MethodGet, "/trips", nil, &out)
	return out, err
}

func (c *Client) Trip(ctx context.Context, id uint) (*models.TripDetail, error) {
	var out models.TripDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/trips/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	var out models.Trip
	if err := c.doJSON(ctx, http.MethodPost, "/trips", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTrip(ctx context.Context, id uint, req models.UpdateTripRequest) (*models.Trip, error) {
	var out models.Trip
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/trips/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTrip(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/trips/%d", id), nil, nil)
}

func (c *Client) AddTripRequest(ctx context.Context, tripID uint, req models.CreateTripRequestRequest) (*models.TripRequest, error) {
	var out models.TripRequest
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/trips/%d/requests", tripID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddTripResponse(ctx context.Context, requestID uint, req models.CreateTripResponseRequest) (*models.TripResponse, error) {
	var out models.TripResponse
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/trips/requests/%d/responses", requestID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Auth

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*SignupResult, error) {
	var out SignupResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP completes signup and keeps the returned token for later calls.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/verify-otp", models.VerifyOTPRequest{Email: email, OTP: otp})
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/resend-otp", models.ResendOTPRequest{Email: email}, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, in interface{}) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Groups

func (c *Client) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	var out models.Group
	if err := c.doJSON(ctx, http.MethodPost, "/groups", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Group(ctx context.Context, id string) (*models.Group, error) {
	var out models.Group
	if err := c.doJSON(ctx, http.MethodGet, "/groups/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
