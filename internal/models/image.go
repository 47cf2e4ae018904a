package models

import "time"

// ImageAsset is a shared image file referenced by products and events.
// File holds the path the file is served under, e.g. "/media/images/kolczyki.jpg".
type ImageAsset struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	File      string     `json:"file" gorm:"type:varchar(1024);not null" validate:"required,max=1024"`
	Width     int        `json:"width" validate:"gte=0"`
	Height    int        `json:"height" validate:"gte=0"`
	Tags      []ImageTag `json:"-" gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
}

// ImageTag labels an image; lookups are case-insensitive.
type ImageTag struct {
	ID      uint   `gorm:"primaryKey"`
	ImageID uint   `gorm:"not null;index"`
	Name    string `gorm:"type:varchar(100);not null;index"`
}

// TagNames returns the tag names in insertion order.
func (i *ImageAsset) TagNames() []string {
	names := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		names = append(names, t.Name)
	}
	return names
}
