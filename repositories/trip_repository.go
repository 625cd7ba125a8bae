// File: /repositories/trip_repository.go
package repositories

import (
	"context"
	"time"

	"globe-travel-api/database"
	"globe-travel-api/models"
)

type TripRepository struct {
	store database.Store
}

func NewTripRepository(store database.Store) *TripRepository {
	return &TripRepository{store: store}
}

func (r *TripRepository) List(ctx context.Context) ([]models.Trip, error) {
	trips := []models.Trip{}
	err := r.store.DB().WithContext(ctx).Order("created_at DESC, id DESC").Find(&trips).Error
	return trips, err
}

func (r *TripRepository) Get(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	result := r.store.DB().WithContext(ctx).Limit(1).Find(&trip, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &trip, nil
}

// Requests returns a trip's requests newest first.
func (r *TripRepository) Requests(ctx context.Context, tripID uint) ([]models.TripRequest, error) {
	var requests []models.TripRequest
	err := r.store.DB().WithContext(ctx).
		Where("trip_plan_id = ?", tripID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

// Responses returns the responses of the given requests oldest first.
func (r *TripRepository) Responses(ctx context.Context, requestIDs ...uint) ([]models.TripResponse, error) {
	var responses []models.TripResponse
	if len(requestIDs) == 0 {
		return responses, nil
	}
	err := r.store.DB().WithContext(ctx).
		Where("request_id IN ?", requestIDs).
		Order("created_at ASC, id ASC").
		Find(&responses).Error
	return responses, err
}

func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	return r.store.DB().WithContext(ctx).Create(trip).Error
}

func (r *TripRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (bool, error) {
	updates["updated_at"] = time.Now()
	result := r.store.DB().WithContext(ctx).Model(&models.Trip{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected > 0, result.Error
}

// Delete removes the trip with its requests and their responses.
func (r *TripRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.store.DB().WithContext(ctx)

	requestIDs := db.Model(&models.TripRequest{}).Select("id").Where("trip_plan_id = ?", id)
	if err := db.Where("request_id IN (?)", requestIDs).Delete(&models.TripResponse{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("trip_plan_id = ?", id).Delete(&models.TripRequest{}).Error; err != nil {
		return false, err
	}

	result := db.Delete(&models.Trip{}, id)
	return result.RowsAffected > 0, result.Error
}

func (r *TripRepository) GetRequest(ctx context.Context, id uint) (*models.TripRequest, error) {
	var request models.TripRequest
	result := r.store.DB().WithContext(ctx).Limit(1).Find(&request, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &request, nil
}

func (r *TripRepository) CreateRequest(ctx context.Context, request *models.TripRequest) error {
	return r.store.DB().WithContext(ctx).Create(request).Error
}

func (r *TripRepository) CreateResponse(ctx context.Context, response *models.TripResponse) error {
	return r.store.DB().WithContext(ctx).Create(response).Error
}
