package repository

import (
	"errors"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// AdminRepository is the back-office account data access interface.
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	Update(admin *models.Admin) error
}

// GormAdminRepository is the GORM implementation.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates the admin repository.
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByID fetches an admin by id.
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	if id == 0 {
		return nil, errors.New("invalid admin id")
	}
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername fetches an admin by username.
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	if username == "" {
		return nil, errors.New("invalid username")
	}
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Update persists admin changes.
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	if admin == nil || admin.ID == 0 {
		return errors.New("invalid admin")
	}
	return r.db.Save(admin).Error
}
