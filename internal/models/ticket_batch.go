package models

import (
	"time"

	"gorm.io/gorm"
)

// TicketBatch groups physically printed credentials issued together under
// one shared code. Deactivating a batch invalidates every member ticket
// that has not been individually bound to a buyer.
type TicketBatch struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	BatchCode string         `gorm:"uniqueIndex;not null" json:"batch_code"`
	EventID   string         `gorm:"index;not null;type:varchar(36)" json:"event_id"`
	Kind      string         `gorm:"index;not null" json:"kind"` // ticket / invitation
	CardType  string         `json:"card_type,omitempty"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	IsActive  bool           `gorm:"index;default:true" json:"is_active"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedBy *uint          `gorm:"index" json:"created_by,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// TableName overrides the table name.
func (TicketBatch) TableName() string {
	return "ticket_batches"
}
