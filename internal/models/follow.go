package models

import "time"

// UserFollow is a directional follow edge between two users. The composite
// primary key keeps the pair unique; self-follows are rejected in the
// service layer.
type UserFollow struct {
	FollowerID  string    `json:"follower_id" gorm:"primaryKey;type:varchar(36)"`
	FollowingID string    `json:"following_id" gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName matches the raw join queries in the follow repository.
func (UserFollow) TableName() string { return "user_follows" }

// FollowEntry is one row of a followers/following listing.
type FollowEntry struct {
	ID        string  `json:"id"`
	Username  *string `json:"username"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	AvatarURL string  `json:"avatar_url"`
}
