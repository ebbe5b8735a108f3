package repositories

import (
	"treva/internal/models"
	"treva/internal/query"
)

// UserRepository defines the interface for user data access. All reads
// exclude soft-deleted rows.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByExternalID(externalID string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateFields(id string, set *query.UpdateSet) error
	SoftDelete(id string) error
	Search(q string, limit, offset int) ([]models.User, error)
}
