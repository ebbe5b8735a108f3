package repositories

import (
	"fmt"

	"treva/internal/apperrors"
	"treva/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{
		db: db,
	}
}

// Follow inserts a follow edge; an existing edge is left untouched.
func (r *GORMFollowRepository) Follow(followerID, followingID string) error {
	edge := models.UserFollow{FollowerID: followerID, FollowingID: followingID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
	if err != nil {
		return apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to follow: %w", err))
	}
	return nil
}

// Unfollow removes a follow edge if present.
func (r *GORMFollowRepository) Unfollow(followerID, followingID string) error {
	err := r.db.
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.UserFollow{}).Error
	if err != nil {
		return apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to unfollow: %w", err))
	}
	return nil
}

// IsFollowing reports whether the edge follower -> following exists.
func (r *GORMFollowRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.ErrDatabase.WithCause(err)
	}
	return count > 0, nil
}

// CountFollowers counts users following userID.
func (r *GORMFollowRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).Where("following_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, apperrors.ErrDatabase.WithCause(err)
	}
	return count, nil
}

// CountFollowing counts users userID follows.
func (r *GORMFollowRepository) CountFollowing(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserFollow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, apperrors.ErrDatabase.WithCause(err)
	}
	return count, nil
}

// Followers lists the users following userID, most recent edge first.
// Soft-deleted users drop out via the join predicate.
func (r *GORMFollowRepository) Followers(userID string, limit, offset int) ([]models.FollowEntry, error) {
	var entries []models.FollowEntry
	err := r.db.
		Table("user_follows f").
		Select("u.id, u.username, u.name, u.surname, u.avatar_url").
		Joins("JOIN users u ON u.id = f.follower_id").
		Where("f.following_id = ? AND u.deleted_at IS NULL", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&entries).Error
	if err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to list followers: %w", err))
	}
	return entries, nil
}

// Following lists the users userID follows, most recent edge first.
func (r *GORMFollowRepository) Following(userID string, limit, offset int) ([]models.FollowEntry, error) {
	var entries []models.FollowEntry
	err := r.db.
		Table("user_follows f").
		Select("u.id, u.username, u.name, u.surname, u.avatar_url").
		Joins("JOIN users u ON u.id = f.following_id").
		Where("f.follower_id = ? AND u.deleted_at IS NULL", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&entries).Error
	if err != nil {
		return nil, apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to list following: %w", err))
	}
	return entries, nil
}

// RemoveAllFor deletes every edge touching userID, both directions. Used
// when an account is soft-deleted, since the soft delete bypasses FK
// cascades.
func (r *GORMFollowRepository) RemoveAllFor(userID string) error {
	err := r.db.
		Where("follower_id = ? OR following_id = ?", userID, userID).
		Delete(&models.UserFollow{}).Error
	if err != nil {
		return apperrors.ErrDatabase.WithCause(fmt.Errorf("failed to remove follow edges: %w", err))
	}
	return nil
}
