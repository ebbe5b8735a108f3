package repositories

import "treva/internal/models"

// FollowRepository defines the interface for the follow graph. Follow and
// Unfollow are idempotent; repeating either is not an error.
type FollowRepository interface {
	Follow(followerID, followingID string) error
	Unfollow(followerID, followingID string) error
	IsFollowing(followerID, followingID string) (bool, error)
	CountFollowers(userID string) (int64, error)
	CountFollowing(userID string) (int64, error)
	Followers(userID string, limit, offset int) ([]models.FollowEntry, error)
	Following(userID string, limit, offset int) ([]models.FollowEntry, error)
	RemoveAllFor(userID string) error
}
