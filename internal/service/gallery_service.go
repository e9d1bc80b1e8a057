package service

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
)

// GalleryService manages the public photo gallery.
type GalleryService struct {
	galleryRepo repository.GalleryImageRepository
	uploads     *UploadService
}

// NewGalleryService creates the gallery service.
func NewGalleryService(galleryRepo repository.GalleryImageRepository, uploads *UploadService) *GalleryService {
	return &GalleryService{galleryRepo: galleryRepo, uploads: uploads}
}

// UploadImageInput is one admin gallery upload.
type UploadImageInput struct {
	File      *multipart.FileHeader
	Title     string
	EventID   string
	SortOrder int
}

// UploadImage stores the file and registers the gallery entry.
func (s *GalleryService) UploadImage(input UploadImageInput) (*models.GalleryImage, error) {
	if input.File == nil {
		return nil, ErrGalleryInvalid
	}
	url, err := s.uploads.SaveFile(input.File, constants.UploadSceneGallery)
	if err != nil {
		logger.Warnw("gallery upload rejected", "filename", input.File.Filename, "error", err)
		return nil, ErrGalleryUploadFailed
	}

	now := time.Now()
	image := &models.GalleryImage{
		Title:     strings.TrimSpace(input.Title),
		URL:       url,
		SortOrder: input.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if eventID := strings.TrimSpace(input.EventID); eventID != "" {
		image.EventID = &eventID
	}
	if err := s.galleryRepo.Create(image); err != nil {
		return nil, ErrGalleryUploadFailed
	}
	return image, nil
}

// ListImages lists gallery images, newest batch of uploads first
// within sort order. An empty eventID lists across all events.
func (s *GalleryService) ListImages(eventID string, page, pageSize int) ([]models.GalleryImage, int64, error) {
	images, total, err := s.galleryRepo.List(strings.TrimSpace(eventID), page, pageSize)
	if err != nil {
		return nil, 0, ErrGalleryInvalid
	}
	return images, total, nil
}

// UpdateImageInput are the editable gallery fields.
type UpdateImageInput struct {
	Title     string
	SortOrder int
}

// UpdateImage edits a gallery entry.
func (s *GalleryService) UpdateImage(id uint, input UpdateImageInput) (*models.GalleryImage, error) {
	image, err := s.galleryRepo.GetByID(id)
	if err != nil {
		return nil, ErrGalleryInvalid
	}
	if image == nil {
		return nil, ErrGalleryNotFound
	}
	image.Title = strings.TrimSpace(input.Title)
	image.SortOrder = input.SortOrder
	image.UpdatedAt = time.Now()
	if err := s.galleryRepo.Update(image); err != nil {
		return nil, ErrGalleryInvalid
	}
	return image, nil
}

// DeleteImage removes a gallery entry. The file stays on disk.
func (s *GalleryService) DeleteImage(id uint) error {
	image, err := s.galleryRepo.GetByID(id)
	if err != nil {
		return ErrGalleryInvalid
	}
	if image == nil {
		return ErrGalleryNotFound
	}
	return s.galleryRepo.Delete(id)
}
