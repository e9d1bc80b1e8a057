package repository

import (
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardStats are the headline counters of the admin dashboard.
type DashboardStats struct {
	Events         int64        `json:"events"`
	UpcomingEvents int64        `json:"upcoming_events"`
	TicketsIssued  int64        `json:"tickets_issued"`
	TicketsUsed    int64        `json:"tickets_used"`
	UnreadMessages int64        `json:"unread_messages"`
	Revenue        models.Money `json:"revenue"`
}

// DashboardRepository aggregates cross-table statistics.
type DashboardRepository interface {
	Stats(now time.Time) (*DashboardStats, error)
}

// GormDashboardRepository is the GORM implementation.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates the dashboard repository.
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// Stats gathers the dashboard counters in one pass.
func (r *GormDashboardRepository) Stats(now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := r.db.Model(&models.Event{}).Count(&stats.Events).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Event{}).Where("date >= ?", now).Count(&stats.UpcomingEvents).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Ticket{}).Count(&stats.TicketsIssued).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Ticket{}).Where("used = ?", true).Count(&stats.TicketsUsed).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Message{}).Where("status = ?", constants.MessageStatusUnread).Count(&stats.UnreadMessages).Error; err != nil {
		return nil, err
	}

	var revenue struct {
		Total decimal.NullDecimal
	}
	err := r.db.Model(&models.Payment{}).
		Select("SUM(amount) AS total").
		Where("status = ?", constants.PaymentStatusSuccess).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue.Total.Valid {
		stats.Revenue = models.NewMoneyFromDecimal(revenue.Total.Decimal)
	} else {
		stats.Revenue = models.NewMoneyFromDecimal(decimal.Zero)
	}
	return stats, nil
}
