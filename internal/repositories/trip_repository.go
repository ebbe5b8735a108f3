package repositories

import (
	"treva/internal/models"
	"treva/internal/query"
)

// TripRepository defines the interface for trip data access. Every lookup
// that precedes a mutation filters on both trip id and owner id in a single
// statement; "not mine" and "does not exist" are indistinguishable by design.
type TripRepository interface {
	Create(trip *models.Trip) error
	GetByIDForUser(id, userID string) (*models.Trip, error)
	CountByUser(userID string) (int64, error)
	ListByUser(userID string, limit, offset int) ([]models.Trip, error)
	UpdateFields(id, userID string, set *query.UpdateSet) error
	DeleteForUser(id, userID string) error
}
