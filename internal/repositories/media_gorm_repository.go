package repositories

import (
	"errors"
	"fmt"

	"treva/internal/apperrors"
	"treva/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMediaRepository is a GORM implementation of MediaRepository.
type GORMMediaRepository struct {
	db *gorm.DB
}

// NewGORMMediaRepository creates a new instance of GORMMediaRepository.
func NewGORMMediaRepository(db *gorm.DB) *GORMMediaRepository {
	return &GORMMediaRepository{
		db: db,
	}
}

// Create inserts a media row for a trip.
func (r *GORMMediaRepository) Create(media *models.Media) error {
	if media.ID == "" {
		media.ID = uuid.New().String()
	}
	if err := r.db.Create(media).Error; err != nil {
		return apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to create media: %w", err))
	}
	return nil
}

// GetByID retrieves a media row by id, without ownership filtering: media
// existence is not hidden, only mutation rights are.
func (r *GORMMediaRepository) GetByID(id string) (*models.Media, error) {
	var media models.Media
	if err := r.db.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMediaNotFound
		}
		return nil, apperrors.ErrDatabase.WithCause(err)
	}
	return &media, nil
}

// ListByTrip returns a trip's media in insertion order.
func (r *GORMMediaRepository) ListByTrip(tripID string) ([]models.Media, error) {
	var media []models.Media
	if err := r.db.Where("trip_id = ?", tripID).Order("created_at ASC").Find(&media).Error; err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to list media: %w", err))
	}
	return media, nil
}

// ListByTrips batch-loads media for a set of trips in one query, replacing a
// per-trip lookup during list fan-out.
func (r *GORMMediaRepository) ListByTrips(tripIDs []string) ([]models.Media, error) {
	if len(tripIDs) == 0 {
		return nil, nil
	}
	var media []models.Media
	if err := r.db.Where("trip_id IN ?", tripIDs).Order("created_at ASC").Find(&media).Error; err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to batch-list media: %w", err))
	}
	return media, nil
}

// Delete removes a media row by id.
func (r *GORMMediaRepository) Delete(id string) error {
	res := r.db.Delete(&models.Media{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.ErrDeleteFailed.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrMediaNotFound
	}
	return nil
}
