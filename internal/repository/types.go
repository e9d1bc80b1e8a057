package repository

import "time"

// EventListFilter filters the event list.
type EventListFilter struct {
	Page          int
	PageSize      int
	Search        string
	OnlyPublished bool
	DateFrom      *time.Time
	DateTo        *time.Time
}

// TicketListFilter filters the ticket list.
type TicketListFilter struct {
	Page      int
	PageSize  int
	EventID   string
	BatchCode string
	Kind      string
	Used      *bool
	IsActive  *bool
	Search    string
}

// BatchListFilter filters the batch list.
type BatchListFilter struct {
	Page     int
	PageSize int
	EventID  string
	Kind     string
}

// MessageListFilter filters contact messages.
type MessageListFilter struct {
	Page     int
	PageSize int
	Status   string
}
