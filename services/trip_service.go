// File: /services/trip_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"globe-travel-api/models"
	"globe-travel-api/repositories"
	"globe-travel-api/utils"
)

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrRequestNotFound = errors.New("trip request not found")
)

var requestTypes = map[string]bool{
	models.RequestTypeAdvice: true,
	models.RequestTypeMedia:  true,
	models.RequestTypePosts:  true,
}

type TripService struct {
	trips     *repositories.TripRepository
	locations *repositories.LocationRepository
}

func NewTripService(trips *repositories.TripRepository, locations *repositories.LocationRepository) *TripService {
	return &TripService{trips: trips, locations: locations}
}

func (s *TripService) List(ctx context.Context) ([]models.Trip, error) {
	return s.trips.List(ctx)
}

// Detail loads a trip with its request/response threads.
func (s *TripService) Detail(ctx context.Context, id uint) (*models.TripDetail, error) {
	trip, err := s.trips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	requests, err := s.trips.Requests(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	responses, err := s.trips.Responses(ctx, ids...)
	if err != nil {
		return nil, err
	}

	detail := AggregateTrip(*trip, requests, responses)
	return &detail, nil
}

func (s *TripService) Create(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	if req.Title == "" {
		return nil, invalid("Title is required")
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	locations, err := serializeLocations(req.Locations)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Title:       utils.SanitizeText(req.Title),
		Description: sanitizePtr(req.Description),
		StartDate:   emptyToNil(req.StartDate),
		EndDate:     emptyToNil(req.EndDate),
		Locations:   locations,
		Author:      utils.SanitizeText(utils.StringOr(req.Author, models.AnonymousAuthor)),
		Status:      utils.StringOr(req.Status, models.DefaultTripStatus),
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}
	return s.trips.Get(ctx, trip.ID)
}

func (s *TripService) Update(ctx context.Context, id uint, req models.UpdateTripRequest) (*models.Trip, error) {
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, invalid("Title is required")
		}
		updates["title"] = utils.SanitizeText(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeText(*req.Description)
	}
	if req.StartDate != nil {
		updates["start_date"] = emptyToNil(req.StartDate)
	}
	if req.EndDate != nil {
		updates["end_date"] = emptyToNil(req.EndDate)
	}
	if len(req.Locations) > 0 {
		locations, err := serializeLocations(req.Locations)
		if err != nil {
			return nil, err
		}
		updates["locations"] = locations
	}
	if req.Status != nil {
		updates["status"] = utils.SanitizeText(*req.Status)
	}

	found, err := s.trips.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrTripNotFound
	}
	return s.trips.Get(ctx, id)
}

func (s *TripService) Delete(ctx context.Context, id uint) error {
	found, err := s.trips.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrTripNotFound
	}
	return nil
}

func (s *TripService) AddRequest(ctx context.Context, tripID uint, req models.CreateTripRequestRequest) (*models.TripRequest, error) {
	if !requestTypes[req.RequestType] {
		return nil, invalid("request_type must be one of advice, media, posts")
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	if req.LocationID != nil {
		exists, err := s.locations.Exists(ctx, *req.LocationID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrLocationNotFound
		}
	}

	request := &models.TripRequest{
		TripPlanID:  tripID,
		RequestType: req.RequestType,
		LocationID:  req.LocationID,
		Message:     sanitizePtr(req.Message),
		Author:      utils.SanitizeText(utils.StringOr(req.Author, models.AnonymousAuthor)),
	}
	if err := s.trips.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *TripService) AddResponse(ctx context.Context, requestID uint, req models.CreateTripResponseRequest) (*models.TripResponse, error) {
	if req.ResponseType == "" {
		return nil, invalid("response_type is required")
	}

	request, err := s.trips.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	response := &models.TripResponse{
		RequestID:    requestID,
		Author:       utils.SanitizeText(utils.StringOr(req.Author, models.AnonymousAuthor)),
		ResponseType: utils.SanitizeText(req.ResponseType),
		Content:      sanitizePtr(req.Content),
		MediaID:      req.MediaID,
	}
	if err := s.trips.CreateResponse(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

func validateDates(dates ...*string) error {
	for _, d := range dates {
		if d != nil && *d != "" && !utils.IsValidDate(*d) {
			return invalid("Dates must use YYYY-MM-DD")
		}
	}
	return nil
}

// serializeLocations stores the client's locations array as compact JSON
// text; the client parses it back on read.
func serializeLocations(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, invalid("locations must be an array")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, invalid("locations must be an array")
	}
	text := buf.String()
	return &text, nil
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.SanitizeText(*s)
	return &clean
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
