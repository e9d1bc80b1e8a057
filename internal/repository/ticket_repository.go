package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// TicketRepository is the ticket data access interface.
type TicketRepository interface {
	Create(ticket *models.Ticket) error
	CreateBatch(tickets []models.Ticket) error
	GetByID(id string) (*models.Ticket, error)
	GetByIDWithEvent(id string) (*models.Ticket, error)
	GetByConfirmationCode(code string) (*models.Ticket, error)
	ListByBatchCode(batchCode string) ([]models.Ticket, error)
	List(filter TicketListFilter) ([]models.Ticket, int64, error)
	Update(ticket *models.Ticket) error
	Delete(id string) error
	MarkUsedIfUnused(id string, usedAt time.Time) (int64, error)
	SetUsed(id string, used bool, updatedAt time.Time) (int64, error)
	CountByEvent(eventID string) (sold int64, used int64, err error)
	WithTx(tx *gorm.DB) *GormTicketRepository
}

// GormTicketRepository is the GORM implementation.
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates the ticket repository.
func NewTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormTicketRepository) WithTx(tx *gorm.DB) *GormTicketRepository {
	if tx == nil {
		return r
	}
	return &GormTicketRepository{db: tx}
}

// Create persists one ticket.
func (r *GormTicketRepository) Create(ticket *models.Ticket) error {
	if ticket == nil {
		return errors.New("ticket is nil")
	}
	return r.db.Create(ticket).Error
}

// CreateBatch bulk-inserts tickets.
func (r *GormTicketRepository) CreateBatch(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.Create(&tickets).Error
}

// GetByID fetches a ticket by id.
func (r *GormTicketRepository) GetByID(id string) (*models.Ticket, error) {
	return r.getByID(id, false)
}

// GetByIDWithEvent fetches a ticket with its event and batch preloaded,
// as the verification flow needs them for display and validity checks.
func (r *GormTicketRepository) GetByIDWithEvent(id string) (*models.Ticket, error) {
	return r.getByID(id, true)
}

func (r *GormTicketRepository) getByID(id string, withRelations bool) (*models.Ticket, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("invalid ticket id")
	}
	query := r.db
	if withRelations {
		query = query.Preload("Event").Preload("Batch")
	}
	var ticket models.Ticket
	if err := query.Where("id = ?", id).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// GetByConfirmationCode fetches a ticket by its purchase confirmation code.
func (r *GormTicketRepository) GetByConfirmationCode(code string) (*models.Ticket, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("invalid confirmation code")
	}
	var ticket models.Ticket
	if err := r.db.Preload("Event").Where("confirmation_code = ?", code).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// ListByBatchCode fetches all tickets of one batch in creation order.
func (r *GormTicketRepository) ListByBatchCode(batchCode string) ([]models.Ticket, error) {
	if strings.TrimSpace(batchCode) == "" {
		return nil, errors.New("invalid batch code")
	}
	var items []models.Ticket
	if err := r.db.Where("batch_code = ?", batchCode).Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List fetches tickets with filtering and pagination.
func (r *GormTicketRepository) List(filter TicketListFilter) ([]models.Ticket, int64, error) {
	query := r.db.Model(&models.Ticket{}).Preload("Event")
	if eventID := strings.TrimSpace(filter.EventID); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if batchCode := strings.TrimSpace(filter.BatchCode); batchCode != "" {
		query = query.Where("batch_code = ?", batchCode)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if filter.Used != nil {
		query = query.Where("used = ?", *filter.Used)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("id LIKE ? OR buyer_name LIKE ? OR confirmation_code LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Ticket
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update persists ticket changes.
func (r *GormTicketRepository) Update(ticket *models.Ticket) error {
	if ticket == nil || strings.TrimSpace(ticket.ID) == "" {
		return errors.New("invalid ticket")
	}
	return r.db.Save(ticket).Error
}

// Delete soft-deletes a ticket.
func (r *GormTicketRepository) Delete(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("invalid ticket id")
	}
	return r.db.Delete(&models.Ticket{}, "id = ?", id).Error
}

// MarkUsedIfUnused performs the atomic consume step of verification:
// a single conditional update whose affected-row count is the sole
// source of truth. Zero rows means someone else consumed the ticket
// first (or it was already used).
func (r *GormTicketRepository) MarkUsedIfUnused(id string, usedAt time.Time) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, errors.New("invalid ticket id")
	}
	result := r.db.Model(&models.Ticket{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]interface{}{
			"used":       true,
			"used_at":    usedAt,
			"updated_at": usedAt,
		})
	return result.RowsAffected, result.Error
}

// SetUsed unconditionally writes the used flag (operator override).
func (r *GormTicketRepository) SetUsed(id string, used bool, updatedAt time.Time) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, errors.New("invalid ticket id")
	}
	values := map[string]interface{}{
		"used":       used,
		"updated_at": updatedAt,
	}
	if used {
		values["used_at"] = updatedAt
	} else {
		values["used_at"] = nil
	}
	result := r.db.Model(&models.Ticket{}).Where("id = ?", id).Updates(values)
	return result.RowsAffected, result.Error
}

// CountByEvent returns sold and used ticket counts for an event.
func (r *GormTicketRepository) CountByEvent(eventID string) (int64, int64, error) {
	if strings.TrimSpace(eventID) == "" {
		return 0, 0, errors.New("invalid event id")
	}
	var sold int64
	if err := r.db.Model(&models.Ticket{}).Where("event_id = ?", eventID).Count(&sold).Error; err != nil {
		return 0, 0, err
	}
	var used int64
	if err := r.db.Model(&models.Ticket{}).Where("event_id = ? AND used = ?", eventID, true).Count(&used).Error; err != nil {
		return 0, 0, err
	}
	return sold, used, nil
}
