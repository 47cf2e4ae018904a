package models

import "time"

// Event represents a fair or workshop the shop takes part in.
type Event struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Description string       `json:"description" gorm:"type:text"`
	Location    string       `json:"location" gorm:"type:varchar(255)" validate:"max=255"`
	StartDate   time.Time    `json:"start_date" validate:"required"`
	EndDate     time.Time    `json:"end_date" validate:"required,gtefield=StartDate"`
	ExternalURL string       `json:"external_url" gorm:"type:varchar(1024)" validate:"omitempty,url"`
	Active      bool         `json:"active" gorm:"not null;index"`
	Images      []EventImage `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// EventImage orders shared image assets under an event.
type EventImage struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	EventID   uint       `json:"event_id" gorm:"not null;index"`
	ImageID   uint       `json:"image_id" gorm:"not null"`
	Image     ImageAsset `json:"image" gorm:"foreignKey:ImageID"`
	SortOrder int        `json:"sort_order" gorm:"not null;default:0"`
}
