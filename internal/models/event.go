package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a theatre performance tickets and invitation cards admit to.
// Branding fields (organizer name/logo, sponsor logos) are printed onto
// the issued documents.
type Event struct {
	ID           string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Date         time.Time      `gorm:"index" json:"date"`
	Venue        string         `json:"venue"`
	Price        Money          `gorm:"type:decimal(12,2)" json:"price"`
	Capacity     int            `json:"capacity"`
	PosterURL    string         `json:"poster_url"`
	Organizer    string         `json:"organizer"`
	LogoURL      string         `json:"logo_url"`
	SponsorLogos []string       `gorm:"serializer:json" json:"sponsor_logos"`
	IsPublished  bool           `gorm:"index;default:false" json:"is_published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name.
func (Event) TableName() string {
	return "events"
}

// IsFree reports whether the event charges no admission.
func (e *Event) IsFree() bool {
	return e == nil || e.Price.IsZero()
}
