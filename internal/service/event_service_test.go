package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupEventServiceTest(t *testing.T) (*EventService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:event_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.Ticket{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewEventService(
		repository.NewEventRepository(db),
		repository.NewTicketRepository(db),
	)
	return svc, db
}

func TestCreateAndPublishEvent(t *testing.T) {
	svc, _ := setupEventServiceTest(t)

	event, err := svc.CreateEvent(EventInput{
		Title:    "Spring Showcase",
		Date:     time.Date(2026, 4, 18, 19, 30, 0, 0, time.UTC),
		Venue:    "Main Hall",
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString("9.50")),
		Capacity: 120,
	})
	if err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	if event.ID == "" {
		t.Fatalf("event id should be assigned")
	}
	if event.IsPublished {
		t.Fatalf("new event should start unpublished")
	}

	if _, err := svc.GetPublishedEvent(event.ID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("unpublished event should be hidden from public, got %v", err)
	}

	published := true
	updated, err := svc.UpdateEvent(event.ID, EventInput{
		Title:       event.Title,
		Date:        event.Date,
		Venue:       event.Venue,
		Price:       event.Price,
		Capacity:    event.Capacity,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("update event failed: %v", err)
	}
	if !updated.IsPublished {
		t.Fatalf("event should be published after update")
	}
	if _, err := svc.GetPublishedEvent(event.ID); err != nil {
		t.Fatalf("published event should be visible, got %v", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := setupEventServiceTest(t)

	cases := []struct {
		name  string
		input EventInput
	}{
		{"empty title", EventInput{Date: time.Now()}},
		{"zero date", EventInput{Title: "No Date"}},
		{"negative price", EventInput{
			Title: "Bad Price",
			Date:  time.Now(),
			Price: models.NewMoneyFromDecimal(decimal.RequireFromString("-1")),
		}},
		{"negative capacity", EventInput{
			Title:    "Bad Capacity",
			Date:     time.Now(),
			Capacity: -5,
		}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateEvent(tc.input); !errors.Is(err, ErrEventInvalid) {
			t.Fatalf("%s: want ErrEventInvalid got %v", tc.name, err)
		}
	}
}

func TestGetEventStats(t *testing.T) {
	svc, db := setupEventServiceTest(t)

	event, err := svc.CreateEvent(EventInput{
		Title:    "Counted Night",
		Date:     time.Date(2026, 5, 2, 19, 0, 0, 0, time.UTC),
		Capacity: 10,
	})
	if err != nil {
		t.Fatalf("create event failed: %v", err)
	}

	now := time.Now()
	for i := 0; i < 4; i++ {
		used := i < 2
		ticket := &models.Ticket{
			ID:        fmt.Sprintf("stats-ticket-%d", i),
			EventID:   event.ID,
			Kind:      "ticket",
			IsActive:  true,
			Used:      used,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if used {
			ticket.UsedAt = &now
		}
		if err := db.Create(ticket).Error; err != nil {
			t.Fatalf("seed ticket failed: %v", err)
		}
	}

	stats, err := svc.GetEventStats(event.ID)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.TicketsSold != 4 {
		t.Fatalf("tickets sold want 4 got %d", stats.TicketsSold)
	}
	if stats.TicketsUsed != 2 {
		t.Fatalf("tickets used want 2 got %d", stats.TicketsUsed)
	}
	if stats.Remaining != 6 {
		t.Fatalf("remaining want 6 got %d", stats.Remaining)
	}

	if _, err := svc.GetEventStats("missing"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("missing event: want ErrEventNotFound got %v", err)
	}
}
