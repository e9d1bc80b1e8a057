package repository

import (
	"errors"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// SchoolApplicationRepository is the school-application data access interface.
type SchoolApplicationRepository interface {
	Create(application *models.SchoolApplication) error
	GetByID(id uint) (*models.SchoolApplication, error)
	List(page, pageSize int) ([]models.SchoolApplication, int64, error)
	Delete(id uint) error
}

// GormSchoolApplicationRepository is the GORM implementation.
type GormSchoolApplicationRepository struct {
	db *gorm.DB
}

// NewSchoolApplicationRepository creates the school application repository.
func NewSchoolApplicationRepository(db *gorm.DB) *GormSchoolApplicationRepository {
	return &GormSchoolApplicationRepository{db: db}
}

// Create persists a new application.
func (r *GormSchoolApplicationRepository) Create(application *models.SchoolApplication) error {
	if application == nil {
		return errors.New("application is nil")
	}
	return r.db.Create(application).Error
}

// GetByID fetches an application by id.
func (r *GormSchoolApplicationRepository) GetByID(id uint) (*models.SchoolApplication, error) {
	if id == 0 {
		return nil, errors.New("invalid application id")
	}
	var application models.SchoolApplication
	if err := r.db.Preload("Event").First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// List fetches applications with pagination.
func (r *GormSchoolApplicationRepository) List(page, pageSize int) ([]models.SchoolApplication, int64, error) {
	query := r.db.Model(&models.SchoolApplication{}).Preload("Event")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var items []models.SchoolApplication
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete soft-deletes an application.
func (r *GormSchoolApplicationRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid application id")
	}
	return r.db.Delete(&models.SchoolApplication{}, id).Error
}
