package repositories

import (
	"errors"
	"fmt"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/query"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTripRepository is a GORM implementation of TripRepository.
type GORMTripRepository struct {
	db *gorm.DB
}

// NewGORMTripRepository creates a new instance of GORMTripRepository.
func NewGORMTripRepository(db *gorm.DB) *GORMTripRepository {
	return &GORMTripRepository{
		db: db,
	}
}

// Create creates a new trip in the database.
func (r *GORMTripRepository) Create(trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if err := r.db.Create(trip).Error; err != nil {
		return apperrors.ErrCreateFailed.WithCause(fmt.Errorf("failed to create trip: %w", err))
	}
	return nil
}

// GetByIDForUser retrieves a trip by id, scoped to its owner. A trip owned
// by someone else surfaces as NOT_FOUND, same as a missing one.
func (r *GORMTripRepository) GetByIDForUser(id, userID string) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.First(&trip, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.ErrDatabase.WithCause(err)
	}
	return &trip, nil
}

// CountByUser returns the total number of trips owned by a user.
func (r *GORMTripRepository) CountByUser(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Trip{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.ErrDatabase.WithCause(err)
	}
	return count, nil
}

// ListByUser returns one bounded page of a user's trips, newest first.
func (r *GORMTripRepository) ListByUser(userID string, limit, offset int) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&trips).Error
	if err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to list trips: %w", err))
	}
	return trips, nil
}

// UpdateFields applies a prepared assignment set with the ownership
// predicate appended, so the statement can only ever touch the caller's row.
func (r *GORMTripRepository) UpdateFields(id, userID string, set *query.UpdateSet) error {
	sql := fmt.Sprintf(
		"UPDATE trips SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		set.SetClause(),
	)
	args := append(append([]any{}, set.Values...), id, userID)
	if err := r.db.Exec(sql, args...).Error; err != nil {
		return apperrors.ErrUpdateFailed.WithCause(err)
	}
	return nil
}

// DeleteForUser removes a trip and its media rows in one transaction. The
// ownership predicate on the trip delete makes the check and the write a
// single atomic statement.
func (r *GORMTripRepository) DeleteForUser(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM trips WHERE id = ? AND user_id = ?", id, userID)
		if res.Error != nil {
			return apperrors.ErrDeleteFailed.WithCause(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Exec("DELETE FROM media WHERE trip_id = ?", id).Error; err != nil {
			return apperrors.ErrDeleteFailed.WithCause(err)
		}
		return nil
	})
}
