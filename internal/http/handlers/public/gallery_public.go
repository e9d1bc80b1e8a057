package public

import (
	"strconv"

	handlershared "github.com/stagelight/boxoffice/internal/http/handlers/shared"
	"github.com/stagelight/boxoffice/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetGalleryImages lists gallery entries for the public site.
func (h *Handler) GetGalleryImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "24"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	images, total, err := h.GalleryService.ListImages(c.Query("event_id"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "gallery fetch failed", err)
		return
	}
	response.SuccessWithPage(c, images, response.NewPagination(page, pageSize, total))
}
