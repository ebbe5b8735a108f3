package models

import "gorm.io/gorm"

// User represents an account in the travel log. Email/password users and
// external-identity users share the same row; exactly one of Password or
// ExternalID must be present.
type User struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string  `json:"name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Surname    string  `json:"surname" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Email      *string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"omitempty,email"`
	Phone      string  `json:"phone" gorm:"type:varchar(50)"`
	Password   *string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	ExternalID *string `json:"-" gorm:"uniqueIndex;type:varchar(255)"`
	Username   *string `json:"username" gorm:"uniqueIndex;type:varchar(50)" validate:"omitempty,min=3,max=50"`
	Bio        string  `json:"bio" gorm:"type:varchar(300)" validate:"omitempty,max=300"`
	AvatarURL  string  `json:"avatar_url" gorm:"type:varchar(255)"`
	IsPrivate  bool    `json:"is_private"`
	gorm.Model         // CreatedAt, UpdatedAt, DeletedAt (soft delete)
}

// Profile is the public view of a user, enriched with social counters.
type Profile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Surname        string  `json:"surname"`
	Email          *string `json:"email"`
	Phone          string  `json:"phone"`
	Username       *string `json:"username"`
	Bio            string  `json:"bio"`
	AvatarURL      string  `json:"avatar_url"`
	IsPrivate      bool    `json:"is_private"`
	FollowersCount int64   `json:"followers_count"`
	FollowingCount int64   `json:"following_count"`
	IsFollowing    bool    `json:"is_following"`
	IsMe           bool    `json:"is_me"`
}

// PublicProfile strips the credential fields from a user row.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Phone:     u.Phone,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		IsPrivate: u.IsPrivate,
	}
}
