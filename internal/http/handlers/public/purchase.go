package public

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// PurchaseRequest reserves or issues one ticket.
type PurchaseRequest struct {
	EventID    string `json:"event_id" binding:"required"`
	BuyerName  string `json:"buyer_name" binding:"required"`
	BuyerPhone string `json:"buyer_phone"`
	BuyerEmail string `json:"buyer_email"`
}

// Purchase issues a ticket for a free event or reserves one and
// returns a checkout redirect for a paid event.
func (h *Handler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	result, err := h.PurchaseService.Purchase(c.Request.Context(), service.PurchaseInput{
		EventID:    req.EventID,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		BuyerEmail: req.BuyerEmail,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseInvalid):
			respondError(c, response.CodeBadRequest, "purchase invalid", nil)
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		case errors.Is(err, service.ErrPurchaseSoldOut):
			respondError(c, response.CodeConflict, "event sold out", nil)
		case errors.Is(err, service.ErrPaymentDisabled):
			respondError(c, response.CodeBadRequest, "online payment unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "purchase failed", err)
		}
		return
	}
	response.Success(c, result)
}

// GetTicketByConfirmationCode looks a ticket up by its confirmation
// code so a buyer can re-fetch their credential.
func (h *Handler) GetTicketByConfirmationCode(c *gin.Context) {
	ticket, err := h.PurchaseService.LookupByConfirmationCode(strings.TrimSpace(c.Param("code")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		default:
			respondError(c, response.CodeInternal, "ticket fetch failed", err)
		}
		return
	}
	response.Success(c, ticket)
}

// GetTicketDocumentByConfirmationCode renders a purchased ticket as a
// printable document, addressed by its confirmation code.
func (h *Handler) GetTicketDocumentByConfirmationCode(c *gin.Context) {
	ticket, err := h.PurchaseService.LookupByConfirmationCode(strings.TrimSpace(c.Param("code")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		default:
			respondError(c, response.CodeInternal, "ticket fetch failed", err)
		}
		return
	}
	doc, err := h.TicketService.ComposeTicketDocument(ticket.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "document compose failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Document)
}
