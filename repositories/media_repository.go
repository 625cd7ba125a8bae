// File: /repositories/media_repository.go
package repositories

import (
	"context"

	"globe-travel-api/database"
	"globe-travel-api/models"
)

type MediaRepository struct {
	store database.Store
}

func NewMediaRepository(store database.Store) *MediaRepository {
	return &MediaRepository{store: store}
}

func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.store.DB().WithContext(ctx).Create(media).Error
}

func (r *MediaRepository) Get(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	result := r.store.DB().WithContext(ctx).Limit(1).Find(&media, id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id uint) error {
	return r.store.DB().WithContext(ctx).Delete(&models.Media{}, id).Error
}

// FilenamesFor lists the stored filenames of a location's media.
func (r *MediaRepository) FilenamesFor(ctx context.Context, locationID uint) ([]string, error) {
	var names []string
	err := r.store.DB().WithContext(ctx).Model(&models.Media{}).
		Where("location_id = ?", locationID).
		Pluck("filename", &names).Error
	return names, err
}
