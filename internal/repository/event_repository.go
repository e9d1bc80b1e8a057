package repository

import (
	"errors"
	"strings"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// EventRepository is the event data access interface.
type EventRepository interface {
	Create(event *models.Event) error
	GetByID(id string) (*models.Event, error)
	Update(event *models.Event) error
	Delete(id string) error
	List(filter EventListFilter) ([]models.Event, int64, error)
}

// GormEventRepository is the GORM implementation.
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates the event repository.
func NewEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Create persists a new event.
func (r *GormEventRepository) Create(event *models.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	return r.db.Create(event).Error
}

// GetByID fetches an event by id.
func (r *GormEventRepository) GetByID(id string) (*models.Event, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("invalid event id")
	}
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// Update persists event changes.
func (r *GormEventRepository) Update(event *models.Event) error {
	if event == nil || strings.TrimSpace(event.ID) == "" {
		return errors.New("invalid event")
	}
	return r.db.Save(event).Error
}

// Delete soft-deletes an event.
func (r *GormEventRepository) Delete(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("invalid event id")
	}
	return r.db.Delete(&models.Event{}, "id = ?", id).Error
}

// List fetches events with filtering and pagination.
func (r *GormEventRepository) List(filter EventListFilter) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{})
	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR venue LIKE ?", pattern, pattern)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Event
	if err := query.Order("date asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
