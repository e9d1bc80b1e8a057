package repository

import (
	"errors"
	"strings"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// MessageRepository is the contact-message data access interface.
type MessageRepository interface {
	Create(message *models.Message) error
	GetByID(id uint) (*models.Message, error)
	List(filter MessageListFilter) ([]models.Message, int64, error)
	Update(message *models.Message) error
	Delete(id uint) error
	CountByStatus(status string) (int64, error)
}

// GormMessageRepository is the GORM implementation.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the message repository.
func NewMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create persists a new message.
func (r *GormMessageRepository) Create(message *models.Message) error {
	if message == nil {
		return errors.New("message is nil")
	}
	return r.db.Create(message).Error
}

// GetByID fetches a message by id.
func (r *GormMessageRepository) GetByID(id uint) (*models.Message, error) {
	if id == 0 {
		return nil, errors.New("invalid message id")
	}
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// List fetches messages with filtering and pagination.
func (r *GormMessageRepository) List(filter MessageListFilter) ([]models.Message, int64, error) {
	query := r.db.Model(&models.Message{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Message
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update persists message changes.
func (r *GormMessageRepository) Update(message *models.Message) error {
	if message == nil || message.ID == 0 {
		return errors.New("invalid message")
	}
	return r.db.Save(message).Error
}

// Delete soft-deletes a message.
func (r *GormMessageRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid message id")
	}
	return r.db.Delete(&models.Message{}, id).Error
}

// CountByStatus counts messages in one status.
func (r *GormMessageRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
