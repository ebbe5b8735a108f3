package models

import "time"

// Media kinds. Only these two values ever reach the database; they are
// derived from the upload MIME type, never taken from the client directly.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is a file attached to a trip. FullName is the path relative to the
// upload root (e.g. "images/a1b2c3d4e5f60718_1714650000.jpg"). Its lifecycle
// is bound to the trip: the row is removed by the cascade, the backing file
// by the cleanup consumer.
type Media struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	TripID    string    `json:"trip_id" gorm:"type:varchar(36);index;not null"`
	MediaType string    `json:"media_type" gorm:"type:varchar(100);not null" validate:"oneof=image video"`
	FullName  string    `json:"full_name" gorm:"type:varchar(1024);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the singular table name used by the raw cascade and
// fan-out statements.
func (Media) TableName() string { return "media" }
