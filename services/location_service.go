// File: /services/location_service.go
package services

import (
	"context"
	"errors"

	"globe-travel-api/logging"
	"globe-travel-api/models"
	"globe-travel-api/repositories"
	"globe-travel-api/utils"
)

var ErrLocationNotFound = errors.New("location not found")

// ValidationError carries a message that is safe to return to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

type LocationService struct {
	locations *repositories.LocationRepository
	media     *repositories.MediaRepository
	storage   *MediaStorage
}

func NewLocationService(locations *repositories.LocationRepository, media *repositories.MediaRepository, storage *MediaStorage) *LocationService {
	return &LocationService{
		locations: locations,
		media:     media,
		storage:   storage,
	}
}

func (s *LocationService) List(ctx context.Context) ([]models.LocationResponse, error) {
	rows, err := s.locations.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	media, err := s.locations.MediaFor(ctx, ids...)
	if err != nil {
		return nil, err
	}
	comments, err := s.locations.CommentsFor(ctx, ids...)
	if err != nil {
		return nil, err
	}

	return AggregateLocations(rows, media, comments), nil
}

func (s *LocationService) Get(ctx context.Context, id uint) (*models.LocationResponse, error) {
	location, err := s.locations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}

	media, err := s.locations.MediaFor(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.locations.CommentsFor(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := models.NewLocationResponse(*location, media, comments)
	return &resp, nil
}

func (s *LocationService) Create(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error) {
	lat, latOK := req.Lat.(float64)
	lon, lonOK := req.Lon.(float64)
	if !latOK || !lonOK {
		return nil, invalid("Invalid latitude or longitude")
	}

	if len(req.Position) != 3 {
		return nil, invalid("Invalid position array")
	}
	var position [3]float64
	for i, v := range req.Position {
		f, ok := v.(float64)
		if !ok {
			return nil, invalid("Invalid position array")
		}
		position[i] = f
	}

	if !utils.IsValidLatitude(lat) || !utils.IsValidLongitude(lon) {
		return nil, invalid("Invalid coordinates")
	}

	for _, link := range req.SocialLinks {
		if !utils.IsValidURL(link) {
			return nil, invalid("Invalid social link URL")
		}
	}
	if req.PaypalLink != nil && *req.PaypalLink != "" && !utils.IsValidURL(*req.PaypalLink) {
		return nil, invalid("Invalid PayPal link URL")
	}

	location := models.Location{
		Title:     utils.SanitizeText(req.Title),
		Note:      utils.SanitizeText(req.Note),
		Lat:       lat,
		Lon:       lon,
		PositionX: position[0],
		PositionY: position[1],
		PositionZ: position[2],
	}
	if len(req.SocialLinks) > 0 {
		location.SocialLinks = models.StringList(req.SocialLinks)
	}
	if req.PaypalLink != nil && *req.PaypalLink != "" {
		location.PaypalLink = req.PaypalLink
	}

	if err := s.locations.Create(ctx, &location); err != nil {
		return nil, err
	}
	return s.Get(ctx, location.ID)
}

func (s *LocationService) Update(ctx context.Context, id uint, req models.UpdateLocationRequest) (*models.LocationResponse, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeText(*req.Title)
	}
	if req.Note != nil {
		updates["note"] = utils.SanitizeText(*req.Note)
	}
	if req.Likes != nil {
		updates["likes"] = *req.Likes
	}
	if req.Dislikes != nil {
		updates["dislikes"] = *req.Dislikes
	}
	if req.Shares != nil {
		updates["shares"] = *req.Shares
	}

	found, err := s.locations.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrLocationNotFound
	}
	return s.Get(ctx, id)
}

// Increment bumps one of likes, dislikes or shares and returns the new value.
func (s *LocationService) Increment(ctx context.Context, id uint, counter string) (int, error) {
	value, found, err := s.locations.Increment(ctx, id, counter)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrLocationNotFound
	}
	return value, nil
}

// Checkin bumps the visitor counter and then appends to the visitor log.
// The two writes are independent statements; a failure between them leaves
// the counter ahead of the log.
func (s *LocationService) Checkin(ctx context.Context, id uint, visitorName string, userID *uint) (int, error) {
	visitors, err := s.Increment(ctx, id, "visitors")
	if err != nil {
		return 0, err
	}

	visitor := &models.LocationVisitor{
		LocationID:  id,
		UserID:      userID,
		VisitorName: utils.SanitizeText(visitorName),
	}
	if err := s.locations.AddVisitor(ctx, visitor); err != nil {
		return 0, err
	}
	return visitors, nil
}

func (s *LocationService) Visitors(ctx context.Context, id uint) ([]models.LocationVisitor, error) {
	return s.locations.Visitors(ctx, id)
}

// Delete removes stored files best-effort, then the rows.
func (s *LocationService) Delete(ctx context.Context, id uint) (CleanupReport, error) {
	exists, err := s.locations.Exists(ctx, id)
	if err != nil {
		return CleanupReport{}, err
	}
	if !exists {
		return CleanupReport{}, ErrLocationNotFound
	}

	filenames, err := s.media.FilenamesFor(ctx, id)
	if err != nil {
		return CleanupReport{}, err
	}

	report := s.storage.Remove(filenames...)
	if !report.OK() {
		for name, ferr := range report.Failed {
			logging.Warn().Err(ferr).Str("file", name).Uint("location_id", id).Msg("Could not remove media file")
		}
	}

	if _, err := s.locations.Delete(ctx, id); err != nil {
		return report, err
	}
	return report, nil
}
