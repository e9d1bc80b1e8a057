package admin

import (
	"errors"
	"strconv"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSchoolApplications lists group-visit applications.
func (h *Handler) GetSchoolApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	applications, total, err := h.ApplicationService.ListApplications(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "application fetch failed", err)
		return
	}
	response.SuccessWithPage(c, applications, response.NewPagination(page, pageSize, total))
}

// GetSchoolApplication returns one application.
func (h *Handler) GetSchoolApplication(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	application, err := h.ApplicationService.GetApplication(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			respondError(c, response.CodeNotFound, "application not found", nil)
		default:
			respondError(c, response.CodeInternal, "application fetch failed", err)
		}
		return
	}
	response.Success(c, application)
}

// DeleteSchoolApplication removes an application.
func (h *Handler) DeleteSchoolApplication(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	if err := h.ApplicationService.DeleteApplication(id); err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			respondError(c, response.CodeNotFound, "application not found", nil)
		default:
			respondError(c, response.CodeInternal, "application delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
