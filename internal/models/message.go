package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a contact-form submission from the public site.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Subject   string         `json:"subject"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Status    string         `gorm:"index;not null;default:unread" json:"status"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name.
func (Message) TableName() string {
	return "messages"
}
