package main

import (
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seeds a few demo events so the public site has something to show.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Fatalf("failed to seed admin: %v", err)
	}

	now := time.Now()
	events := []models.Event{
		{
			ID:          uuid.NewString(),
			Title:       "A Midsummer Night's Dream",
			Description: "Shakespeare's comedy staged by the youth ensemble.",
			Date:        now.AddDate(0, 1, 0),
			Venue:       "Main Hall",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(12)),
			Capacity:    180,
			Organizer:   cfg.Theatre.Name,
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Winter Gala",
			Description: "Season-closing gala with invited guests.",
			Date:        now.AddDate(0, 2, 14),
			Venue:       "Main Hall",
			Price:       models.NewMoneyFromDecimal(decimal.Zero),
			Capacity:    220,
			Organizer:   cfg.Theatre.Name,
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Title:       "Open Rehearsal",
			Description: "Free open rehearsal for schools, unpublished draft.",
			Date:        now.AddDate(0, 0, 21),
			Venue:       "Studio Stage",
			Price:       models.NewMoneyFromDecimal(decimal.Zero),
			Capacity:    60,
			Organizer:   cfg.Theatre.Name,
			IsPublished: false,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	var count int64
	models.DB.Model(&models.Event{}).Count(&count)
	if count > 0 {
		stdLog.Printf("events already present, skipping seed")
		return
	}
	for _, event := range events {
		if err := models.DB.Create(&event).Error; err != nil {
			stdLog.Fatalf("failed to seed event %q: %v", event.Title, err)
		}
		stdLog.Printf("seeded event %q", event.Title)
	}
}
