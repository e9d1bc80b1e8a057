package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is one checkout attempt at the payment gateway for an online
// ticket purchase.
type Payment struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TicketID      string         `gorm:"index;not null;type:varchar(36)" json:"ticket_id"`
	Provider      string         `gorm:"not null" json:"provider"`
	ProviderTxnID string         `gorm:"index" json:"provider_txn_id"`
	CheckoutURL   string         `json:"checkout_url,omitempty"`
	Amount        Money          `gorm:"type:decimal(12,2)" json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `gorm:"index;not null" json:"status"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Ticket *Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
}

// TableName overrides the table name.
func (Payment) TableName() string {
	return "payments"
}
