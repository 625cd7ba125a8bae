// File: /repositories/location_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"globe-travel-api/database"
	"globe-travel-api/models"
)

var counterColumns = map[string]bool{
	"likes":    true,
	"dislikes": true,
	"shares":   true,
	"visitors": true,
}

type LocationRepository struct {
	store database.Store
}

func NewLocationRepository(store database.Store) *LocationRepository {
	return &LocationRepository{store: store}
}

// ListWithCounts returns every location newest first with its media and
// comment counts from one aggregate join.
func (r *LocationRepository) ListWithCounts(ctx context.Context) ([]models.LocationStats, error) {
	var rows []models.LocationStats
	err := r.store.Query(ctx, &rows, `
		SELECT l.*,
		       COUNT(DISTINCT m.id) AS media_count,
		       COUNT(DISTINCT c.id) AS comment_count
		FROM locations l
		LEFT JOIN media m ON m.location_id = l.id
		LEFT JOIN comments c ON c.location_id = l.id
		GROUP BY l.id
		ORDER BY l.created_at DESC, l.id DESC`)
	return rows, err
}

// Get returns nil with no error when the location does not exist.
func (r *LocationRepository) Get(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	result := r.store.DB().WithContext(ctx).Limit(1).Find(&location, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &location, nil
}

func (r *LocationRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.store.DB().WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// MediaFor loads media of the given locations, oldest first.
func (r *LocationRepository) MediaFor(ctx context.Context, ids ...uint) ([]models.Media, error) {
	var media []models.Media
	if len(ids) == 0 {
		return media, nil
	}
	err := r.store.DB().WithContext(ctx).
		Where("location_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&media).Error
	return media, err
}

// CommentsFor loads comments of the given locations, oldest first.
func (r *LocationRepository) CommentsFor(ctx context.Context, ids ...uint) ([]models.Comment, error) {
	var comments []models.Comment
	if len(ids) == 0 {
		return comments, nil
	}
	err := r.store.DB().WithContext(ctx).
		Where("location_id IN ?", ids).
		Order("timestamp ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.store.DB().WithContext(ctx).Create(location).Error
}

// Update applies only the supplied columns and bumps updated_at. It reports
// whether a row matched.
func (r *LocationRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (bool, error) {
	updates["updated_at"] = time.Now()
	result := r.store.DB().WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected > 0, result.Error
}

// Increment adds one to a counter column and returns its new value.
func (r *LocationRepository) Increment(ctx context.Context, id uint, column string) (int, bool, error) {
	if !counterColumns[column] {
		return 0, false, fmt.Errorf("unknown counter %q", column)
	}

	res, err := r.store.Run(ctx, fmt.Sprintf("UPDATE locations SET %s = %s + 1 WHERE id = ?", column, column), id)
	if err != nil {
		return 0, false, err
	}
	if res.RowsChanged == 0 {
		return 0, false, nil
	}

	var value struct{ Value int }
	found, err := r.store.QueryOne(ctx, &value, fmt.Sprintf("SELECT %s AS value FROM locations WHERE id = ?", column), id)
	if err != nil || !found {
		return 0, found, err
	}
	return value.Value, true, nil
}

// AddVisitor appends to the check-in log.
func (r *LocationRepository) AddVisitor(ctx context.Context, visitor *models.LocationVisitor) error {
	return r.store.DB().WithContext(ctx).Create(visitor).Error
}

func (r *LocationRepository) Visitors(ctx context.Context, id uint) ([]models.LocationVisitor, error) {
	visitors := []models.LocationVisitor{}
	err := r.store.DB().WithContext(ctx).
		Where("location_id = ?", id).
		Order("visited_at DESC, id DESC").
		Find(&visitors).Error
	return visitors, err
}

// Delete removes a location and its dependents. Advice keeps its row with
// location_id cleared.
func (r *LocationRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db := r.store.DB().WithContext(ctx)

	if err := db.Where("location_id = ?", id).Delete(&models.LocationVisitor{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("location_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("location_id = ?", id).Delete(&models.Media{}).Error; err != nil {
		return false, err
	}
	if err := db.Model(&models.Advice{}).Where("location_id = ?", id).Update("location_id", nil).Error; err != nil {
		return false, err
	}

	result := db.Delete(&models.Location{}, id)
	return result.RowsAffected > 0, result.Error
}
