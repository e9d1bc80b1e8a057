package models

import (
	"time"

	"gorm.io/gorm"
)

// SchoolApplication is a school's request to bring a class to a performance.
type SchoolApplication struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	SchoolName   string         `gorm:"not null" json:"school_name"`
	ContactName  string         `gorm:"not null" json:"contact_name"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone"`
	EventID      *string        `gorm:"index;type:varchar(36)" json:"event_id,omitempty"`
	StudentCount int            `json:"student_count"`
	Note         string         `gorm:"type:text" json:"note"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// TableName overrides the table name.
func (SchoolApplication) TableName() string {
	return "school_applications"
}
