package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/query"
	"treva/internal/repositories"
)

// Social listing pagination bound (followers, following, search).
const (
	SocialPageMax     = 50
	SocialPageDefault = 20
)

// UserService handles profiles, dynamic profile updates, soft deletion and
// the follow graph.
type UserService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func maxLenString(max int, fieldErr *apperrors.AppError) func(any) (any, error) {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) > max {
			return nil, fieldErr
		}
		return s, nil
	}
}

// userUpdateFields is the allow-list for PATCH /user. Every field accepts an
// explicit null, which clears the column. Username carries an extra
// uniqueness pre-check in UpdateProfile before the builder runs.
var userUpdateFields = []query.Field{
	{Name: "name", Column: "name", Null: query.NullAssigns, Validate: maxLenString(100, apperrors.ErrInvalidInput)},
	{Name: "surname", Column: "surname", Null: query.NullAssigns, Validate: maxLenString(100, apperrors.ErrInvalidInput)},
	{Name: "phone", Column: "phone", Null: query.NullAssigns, Validate: maxLenString(50, apperrors.ErrInvalidInput)},
	{Name: "username", Column: "username", Null: query.NullAssigns, Validate: maxLenString(50, apperrors.ErrInvalidInput)},
	{Name: "bio", Column: "bio", Null: query.NullAssigns, Validate: maxLenString(300, apperrors.ErrInvalidInput)},
	{Name: "avatar_url", Column: "avatar_url", Null: query.NullAssigns, Validate: maxLenString(255, apperrors.ErrInvalidInput)},
	{
		Name:   "is_private",
		Column: "is_private",
		Null:   query.NullAssigns,
		Validate: func(v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			if b, ok := v.(bool); ok {
				return b, nil
			}
			return nil, apperrors.ErrInvalidInput
		},
	},
}

// Profile assembles the public view of targetID as seen by viewerID,
// including follower counters and the relationship flags.
func (s *UserService) Profile(viewerID, targetID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	profile := user.PublicProfile()
	if profile.FollowersCount, err = s.followRepo.CountFollowers(targetID); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.followRepo.CountFollowing(targetID); err != nil {
		return nil, err
	}
	profile.IsMe = viewerID == targetID
	if !profile.IsMe {
		if profile.IsFollowing, err = s.followRepo.IsFollowing(viewerID, targetID); err != nil {
			return nil, err
		}
	}
	return &profile, nil
}

// UpdateProfile applies a sparse field set to the caller's own profile.
// Usernames are normalized to lowercase and pre-checked for uniqueness,
// excluding the caller's own row.
func (s *UserService) UpdateProfile(userID string, provided map[string]any) (*models.Profile, error) {
	if raw, ok := provided["username"]; ok && raw != nil {
		username, isString := raw.(string)
		if !isString {
			return nil, apperrors.ErrInvalidInput
		}
		username = strings.ToLower(strings.TrimSpace(username))
		if username != "" {
			existing, err := s.userRepo.GetByUsername(username)
			if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != userID {
				return nil, apperrors.ErrUsernameTaken
			}
		}
		provided["username"] = username
	}

	set, err := query.BuildUpdate(userUpdateFields, provided)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(userID, set); err != nil {
		return nil, err
	}
	return s.Profile(userID, userID)
}

// Delete soft-deletes the caller's account and clears its follow edges in
// both directions. The soft delete bypasses FK cascades, so the edges need
// the explicit sweep.
func (s *UserService) Delete(userID string) error {
	if err := s.userRepo.SoftDelete(userID); err != nil {
		return err
	}
	return s.followRepo.RemoveAllFor(userID)
}

// Search finds users matching q by username, name, surname or email. An
// empty term returns an empty page rather than everyone.
func (s *UserService) Search(q string, page, limit int) ([]models.Profile, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Profile{}, nil
	}
	boundedLimit, offset := query.Paginate(page, limit, SocialPageMax)
	users, err := s.userRepo.Search(q, boundedLimit, offset)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].PublicProfile()
	}
	return profiles, nil
}

// Follow adds the edge userID -> targetID. Self-follows are rejected;
// following an already-followed user is a no-op.
func (s *UserService) Follow(userID, targetID string) error {
	if targetID == "" || targetID == userID {
		return apperrors.ErrInvalidUserID
	}
	if _, err := s.userRepo.GetByID(targetID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrTargetNotFound
		}
		return err
	}
	return s.followRepo.Follow(userID, targetID)
}

// Unfollow removes the edge userID -> targetID if present.
func (s *UserService) Unfollow(userID, targetID string) error {
	if targetID == "" {
		return apperrors.ErrInvalidUserID
	}
	return s.followRepo.Unfollow(userID, targetID)
}

// Followers lists the users following targetID.
func (s *UserService) Followers(targetID string, page, limit int) ([]models.FollowEntry, error) {
	if targetID == "" {
		return nil, apperrors.ErrInvalidUserID
	}
	boundedLimit, offset := query.Paginate(page, limit, SocialPageMax)
	entries, err := s.followRepo.Followers(targetID, boundedLimit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.FollowEntry{}
	}
	return entries, nil
}

// Following lists the users targetID follows.
func (s *UserService) Following(targetID string, page, limit int) ([]models.FollowEntry, error) {
	if targetID == "" {
		return nil, apperrors.ErrInvalidUserID
	}
	boundedLimit, offset := query.Paginate(page, limit, SocialPageMax)
	entries, err := s.followRepo.Following(targetID, boundedLimit, offset)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.FollowEntry{}
	}
	return entries, nil
}
