package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// TicketBatchRepository is the batch data access interface.
//
// Create deliberately returns the raw store error: the batch allocator
// inspects it for gorm.ErrDuplicatedKey to drive its retry loop.
type TicketBatchRepository interface {
	Create(batch *models.TicketBatch) error
	GetByID(id uint) (*models.TicketBatch, error)
	GetByCode(batchCode string) (*models.TicketBatch, error)
	List(filter BatchListFilter) ([]models.TicketBatch, int64, error)
	SetActive(id uint, active bool, updatedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormTicketBatchRepository
}

// GormTicketBatchRepository is the GORM implementation.
type GormTicketBatchRepository struct {
	db *gorm.DB
}

// NewTicketBatchRepository creates the batch repository.
func NewTicketBatchRepository(db *gorm.DB) *GormTicketBatchRepository {
	return &GormTicketBatchRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormTicketBatchRepository) WithTx(tx *gorm.DB) *GormTicketBatchRepository {
	if tx == nil {
		return r
	}
	return &GormTicketBatchRepository{db: tx}
}

// Create inserts a batch row. A uniqueness violation on batch_code comes
// back as gorm.ErrDuplicatedKey.
func (r *GormTicketBatchRepository) Create(batch *models.TicketBatch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	return r.db.Create(batch).Error
}

// GetByID fetches a batch by id.
func (r *GormTicketBatchRepository) GetByID(id uint) (*models.TicketBatch, error) {
	if id == 0 {
		return nil, errors.New("invalid batch id")
	}
	var batch models.TicketBatch
	if err := r.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// GetByCode fetches a batch by its code.
func (r *GormTicketBatchRepository) GetByCode(batchCode string) (*models.TicketBatch, error) {
	if strings.TrimSpace(batchCode) == "" {
		return nil, errors.New("invalid batch code")
	}
	var batch models.TicketBatch
	if err := r.db.Where("batch_code = ?", batchCode).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// List fetches batches with filtering and pagination.
func (r *GormTicketBatchRepository) List(filter BatchListFilter) ([]models.TicketBatch, int64, error) {
	query := r.db.Model(&models.TicketBatch{}).Preload("Event")
	if eventID := strings.TrimSpace(filter.EventID); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.TicketBatch
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SetActive flips the batch activation gate.
func (r *GormTicketBatchRepository) SetActive(id uint, active bool, updatedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid batch id")
	}
	result := r.db.Model(&models.TicketBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}
