package repository

import (
	"errors"
	"strings"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// GalleryImageRepository is the gallery data access interface.
type GalleryImageRepository interface {
	Create(image *models.GalleryImage) error
	GetByID(id uint) (*models.GalleryImage, error)
	List(eventID string, page, pageSize int) ([]models.GalleryImage, int64, error)
	Update(image *models.GalleryImage) error
	Delete(id uint) error
}

// GormGalleryImageRepository is the GORM implementation.
type GormGalleryImageRepository struct {
	db *gorm.DB
}

// NewGalleryImageRepository creates the gallery repository.
func NewGalleryImageRepository(db *gorm.DB) *GormGalleryImageRepository {
	return &GormGalleryImageRepository{db: db}
}

// Create persists a new gallery image.
func (r *GormGalleryImageRepository) Create(image *models.GalleryImage) error {
	if image == nil {
		return errors.New("image is nil")
	}
	return r.db.Create(image).Error
}

// GetByID fetches a gallery image by id.
func (r *GormGalleryImageRepository) GetByID(id uint) (*models.GalleryImage, error) {
	if id == 0 {
		return nil, errors.New("invalid image id")
	}
	var image models.GalleryImage
	if err := r.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// List fetches gallery images, optionally scoped to an event.
func (r *GormGalleryImageRepository) List(eventID string, page, pageSize int) ([]models.GalleryImage, int64, error) {
	query := r.db.Model(&models.GalleryImage{})
	if trimmed := strings.TrimSpace(eventID); trimmed != "" {
		query = query.Where("event_id = ?", trimmed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var items []models.GalleryImage
	if err := query.Order("sort_order asc, id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update persists image changes.
func (r *GormGalleryImageRepository) Update(image *models.GalleryImage) error {
	if image == nil || image.ID == 0 {
		return errors.New("invalid image")
	}
	return r.db.Save(image).Error
}

// Delete soft-deletes a gallery image.
func (r *GormGalleryImageRepository) Delete(id uint) error {
	if id == 0 {
		return errors.New("invalid image id")
	}
	return r.db.Delete(&models.GalleryImage{}, id).Error
}
