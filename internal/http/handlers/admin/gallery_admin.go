package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateGalleryImageRequest edits a gallery entry.
type UpdateGalleryImageRequest struct {
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

// UploadGalleryImage stores an uploaded image and registers it.
// Multipart form: file, title, event_id, sort_order.
func (h *Handler) UploadGalleryImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file missing", err)
		return
	}
	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	image, err := h.GalleryService.UploadImage(service.UploadImageInput{
		File:      file,
		Title:     c.PostForm("title"),
		EventID:   strings.TrimSpace(c.PostForm("event_id")),
		SortOrder: sortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryInvalid):
			respondError(c, response.CodeBadRequest, "gallery image invalid", nil)
		case errors.Is(err, service.ErrGalleryUploadFailed):
			respondError(c, response.CodeBadRequest, "upload rejected", err)
		default:
			respondError(c, response.CodeInternal, "gallery upload failed", err)
		}
		return
	}
	response.Success(c, image)
}

// GetAdminGalleryImages lists gallery entries.
func (h *Handler) GetAdminGalleryImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	images, total, err := h.GalleryService.ListImages(c.Query("event_id"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "gallery fetch failed", err)
		return
	}
	response.SuccessWithPage(c, images, response.NewPagination(page, pageSize, total))
}

// UpdateGalleryImage edits a gallery entry.
func (h *Handler) UpdateGalleryImage(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	var req UpdateGalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	image, err := h.GalleryService.UpdateImage(id, service.UpdateImageInput{
		Title:     req.Title,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, response.CodeNotFound, "gallery image not found", nil)
		default:
			respondError(c, response.CodeInternal, "gallery update failed", err)
		}
		return
	}
	response.Success(c, image)
}

// DeleteGalleryImage removes a gallery entry.
func (h *Handler) DeleteGalleryImage(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	if err := h.GalleryService.DeleteImage(id); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound):
			respondError(c, response.CodeNotFound, "gallery image not found", nil)
		default:
			respondError(c, response.CodeInternal, "gallery delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
