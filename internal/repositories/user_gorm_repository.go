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

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

func (r *GORMUserRepository) getOne(cond string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabase.WithCause(err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne("id = ?", id)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", email)
}

// GetByExternalID retrieves a user by their external-identity id.
func (r *GORMUserRepository) GetByExternalID(externalID string) (*models.User, error) {
	return r.getOne("external_id = ?", externalID)
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne("username = ?", username)
}

// UpdateFields applies a prepared assignment set to the caller's own row.
// The WHERE clause pins both the id and the live-row predicate so the update
// can never touch a soft-deleted or foreign row.
func (r *GORMUserRepository) UpdateFields(id string, set *query.UpdateSet) error {
	sql := fmt.Sprintf(
		"UPDATE users SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL",
		set.SetClause(),
	)
	args := append(append([]any{}, set.Values...), id)
	if err := r.db.Exec(sql, args...).Error; err != nil {
		return apperrors.ErrUpdateFailed.WithCause(err)
	}
	return nil
}

// SoftDelete marks the user as deleted. GORM's DeletedAt scope then hides
// the row from every read in this repository.
func (r *GORMUserRepository) SoftDelete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.ErrDeleteFailed.WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Search matches the term against username, name, surname and email.
func (r *GORMUserRepository) Search(q string, limit, offset int) ([]models.User, error) {
	like := "%" + q + "%"
	var users []models.User
	err := r.db.
		Where("username LIKE ? OR name LIKE ? OR surname LIKE ? OR email LIKE ?", like, like, like, like).
		Order("username, name, surname").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("user search failed: %w", err))
	}
	return users, nil
}
