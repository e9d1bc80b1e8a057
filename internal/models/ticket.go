package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Ticket is a redeemable admission credential: a regular ticket or an
// invitation card, distinguished by Kind. Batch-issued tickets carry a
// BatchCode and start inactive; online purchases have no batch and are
// valid as soon as payment settles.
//
// Used is a one-way transition. Once true, verification must refuse the
// ticket permanently.
type Ticket struct {
	ID               string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	EventID          string         `gorm:"index;not null;type:varchar(36)" json:"event_id"`
	BatchCode        *string        `gorm:"index" json:"batch_code,omitempty"`
	Kind             string         `gorm:"index;not null" json:"kind"` // ticket / invitation
	CardType         string         `json:"card_type,omitempty"`
	IsActive         bool           `gorm:"index;default:false" json:"is_active"`
	Used             bool           `gorm:"index;default:false" json:"used"`
	UsedAt           *time.Time     `json:"used_at,omitempty"`
	BuyerName        string         `json:"buyer_name,omitempty"`
	BuyerPhone       string         `json:"buyer_phone,omitempty"`
	BuyerEmail       string         `json:"buyer_email,omitempty"`
	ConfirmationCode string         `gorm:"index" json:"confirmation_code,omitempty"`
	Price            Money          `gorm:"type:decimal(12,2)" json:"price"`
	PaymentID        *uint          `gorm:"index" json:"payment_id,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Event *Event       `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Batch *TicketBatch `gorm:"foreignKey:BatchCode;references:BatchCode" json:"batch,omitempty"`
}

// TableName overrides the table name.
func (Ticket) TableName() string {
	return "tickets"
}

// IsBatchIssued reports whether the ticket came out of a printed batch.
func (t *Ticket) IsBatchIssued() bool {
	return t != nil && t.BatchCode != nil && strings.TrimSpace(*t.BatchCode) != ""
}

// HasBuyerBinding reports whether the ticket has been bound to a purchaser.
// A bound ticket counts as activated even when IsActive was never flipped.
func (t *Ticket) HasBuyerBinding() bool {
	return t != nil && strings.TrimSpace(t.BuyerName) != ""
}
