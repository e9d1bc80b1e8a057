package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/stagelight/boxoffice/internal/http/handlers/shared"
	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// GetEvents lists published events.
func (h *Handler) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	events, total, err := h.EventService.ListEvents(repository.EventListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        strings.TrimSpace(c.Query("search")),
		OnlyPublished: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "event fetch failed", err)
		return
	}
	response.SuccessWithPage(c, events, response.NewPagination(page, pageSize, total))
}

// GetEvent returns one published event.
func (h *Handler) GetEvent(c *gin.Context) {
	event, err := h.EventService.GetPublishedEvent(strings.TrimSpace(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		default:
			respondError(c, response.CodeInternal, "event fetch failed", err)
		}
		return
	}
	response.Success(c, event)
}
