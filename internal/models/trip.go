package models

import "time"

// Trip is a single travel-log entry. A trip belongs to exactly one user and
// is never shared; deleting it cascades to its media rows.
type Trip struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null" validate:"required,min=1,max=255"`
	Description *string   `json:"description" gorm:"type:text"`
	Latitude    float64   `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" validate:"min=-180,max=180"`
	UserID      string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Media       []Media   `json:"media" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	MediaCount  int       `json:"media_count" gorm:"-"`
}

// TripPage is the response shape for paginated trip listings. Total comes
// from a separate count query so clients can derive the page count.
type TripPage struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Total   int64  `json:"total"`
	Items   []Trip `json:"items"`
}
