package admin

import (
	"errors"
	"strings"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// SetUsedRequest overrides a ticket's used flag.
type SetUsedRequest struct {
	Used *bool `json:"used" binding:"required"`
}

// VerifyScan checks a scanned credential and consumes it when valid.
// The raw payload rides in the wildcard path segment; the normalizer
// handles URL-encoded and JSON shapes. Rejections are a normal
// outcome, reported in the result body.
func (h *Handler) VerifyScan(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("code"), "/")
	result, err := h.VerifyService.Verify(raw)
	if err != nil {
		respondError(c, response.CodeInternal, "verify failed", err)
		return
	}
	if result.Valid {
		requestLog(c).Infow("ticket_verified", "ticket_id", result.Ticket.ID)
	}
	response.Success(c, result)
}

// SetTicketUsed force-sets the used flag, bypassing verification.
func (h *Handler) SetTicketUsed(c *gin.Context) {
	var req SetUsedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Used == nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ticket, err := h.VerifyService.SetUsed(strings.TrimSpace(c.Param("id")), *req.Used)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		default:
			respondError(c, response.CodeInternal, "ticket update failed", err)
		}
		return
	}
	response.Success(c, ticket)
}
