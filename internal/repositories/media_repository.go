package repositories

import "treva/internal/models"

// MediaRepository defines the interface for media row access. Ownership is
// not checked here: media rights are transitive through the owning trip and
// enforced in the service layer.
type MediaRepository interface {
	Create(media *models.Media) error
	GetByID(id string) (*models.Media, error)
	ListByTrip(tripID string) ([]models.Media, error)
	ListByTrips(tripIDs []string) ([]models.Media, error)
	Delete(id string) error
}
