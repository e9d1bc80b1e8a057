package service

import (
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventService manages the performance calendar.
type EventService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
}

// NewEventService creates the event service.
func NewEventService(eventRepo repository.EventRepository, ticketRepo repository.TicketRepository) *EventService {
	return &EventService{eventRepo: eventRepo, ticketRepo: ticketRepo}
}

// EventInput carries create/update fields.
type EventInput struct {
	Title        string
	Description  string
	Date         time.Time
	Venue        string
	Price        models.Money
	Capacity     int
	PosterURL    string
	Organizer    string
	LogoURL      string
	SponsorLogos []string
	IsPublished  *bool
}

// EventStats are per-event sales counters.
type EventStats struct {
	Event       *models.Event `json:"event"`
	TicketsSold int64         `json:"tickets_sold"`
	TicketsUsed int64         `json:"tickets_used"`
	Remaining   int64         `json:"remaining"`
}

// CreateEvent creates a new event.
func (s *EventService) CreateEvent(input EventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Date.IsZero() {
		return nil, ErrEventInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) || input.Capacity < 0 {
		return nil, ErrEventInvalid
	}

	now := time.Now()
	event := &models.Event{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Date:         input.Date,
		Venue:        strings.TrimSpace(input.Venue),
		Price:        input.Price,
		Capacity:     input.Capacity,
		PosterURL:    strings.TrimSpace(input.PosterURL),
		Organizer:    strings.TrimSpace(input.Organizer),
		LogoURL:      strings.TrimSpace(input.LogoURL),
		SponsorLogos: input.SponsorLogos,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.IsPublished != nil {
		event.IsPublished = *input.IsPublished
	}
	if err := s.eventRepo.Create(event); err != nil {
		logger.Errorw("event create failed", "title", title, "error", err)
		return nil, ErrEventCreateFailed
	}
	return event, nil
}

// UpdateEvent applies changes to an existing event.
func (s *EventService) UpdateEvent(id string, input EventInput) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		event.Title = title
	}
	if !input.Date.IsZero() {
		event.Date = input.Date
	}
	event.Description = strings.TrimSpace(input.Description)
	event.Venue = strings.TrimSpace(input.Venue)
	event.Price = input.Price
	if input.Capacity >= 0 {
		event.Capacity = input.Capacity
	}
	event.PosterURL = strings.TrimSpace(input.PosterURL)
	event.Organizer = strings.TrimSpace(input.Organizer)
	event.LogoURL = strings.TrimSpace(input.LogoURL)
	event.SponsorLogos = input.SponsorLogos
	if input.IsPublished != nil {
		event.IsPublished = *input.IsPublished
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(event); err != nil {
		return nil, ErrEventUpdateFailed
	}
	return event, nil
}

// DeleteEvent soft-deletes an event.
func (s *EventService) DeleteEvent(id string) error {
	event, err := s.GetEvent(id)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(event.ID); err != nil {
		return ErrEventDeleteFailed
	}
	return nil
}

// GetEvent fetches one event.
func (s *EventService) GetEvent(id string) (*models.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEventInvalid
	}
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, ErrEventFetchFailed
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// GetPublishedEvent fetches one event for the public site.
func (s *EventService) GetPublishedEvent(id string) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents lists events with filtering.
func (s *EventService) ListEvents(filter repository.EventListFilter) ([]models.Event, int64, error) {
	events, total, err := s.eventRepo.List(filter)
	if err != nil {
		return nil, 0, ErrEventFetchFailed
	}
	return events, total, nil
}

// GetEventStats returns sales counters for one event.
func (s *EventService) GetEventStats(id string) (*EventStats, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	sold, used, err := s.ticketRepo.CountByEvent(event.ID)
	if err != nil {
		return nil, ErrEventFetchFailed
	}
	remaining := int64(event.Capacity) - sold
	if event.Capacity == 0 || remaining < 0 {
		remaining = 0
	}
	return &EventStats{Event: event, TicketsSold: sold, TicketsUsed: used, Remaining: remaining}, nil
}
