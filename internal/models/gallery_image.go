package models

import (
	"time"

	"gorm.io/gorm"
)

// GalleryImage is a photo shown on the public gallery page.
type GalleryImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `json:"title"`
	URL       string         `gorm:"not null" json:"url"`
	EventID   *string        `gorm:"index;type:varchar(36)" json:"event_id,omitempty"`
	SortOrder int            `gorm:"index;default:0" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name.
func (GalleryImage) TableName() string {
	return "gallery_images"
}
