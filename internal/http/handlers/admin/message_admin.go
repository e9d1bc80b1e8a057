package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMessages lists contact messages.
func (h *Handler) GetMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	messages, total, err := h.MessageService.ListMessages(repository.MessageListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(strings.ToLower(c.Query("status"))),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "message fetch failed", err)
		return
	}
	response.SuccessWithPage(c, messages, response.NewPagination(page, pageSize, total))
}

// GetMessage returns one message, marking it read on first view.
func (h *Handler) GetMessage(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	message, err := h.MessageService.GetMessage(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			respondError(c, response.CodeNotFound, "message not found", nil)
		default:
			respondError(c, response.CodeInternal, "message fetch failed", err)
		}
		return
	}
	response.Success(c, message)
}

// DeleteMessage removes a message.
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	if err := h.MessageService.DeleteMessage(id); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			respondError(c, response.CodeNotFound, "message not found", nil)
		default:
			respondError(c, response.CodeInternal, "message delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
