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

// UpdateBuyerRequest binds buyer details onto a ticket.
type UpdateBuyerRequest struct {
	BuyerName  string `json:"buyer_name"`
	BuyerPhone string `json:"buyer_phone"`
	BuyerEmail string `json:"buyer_email"`
}

// GetTickets lists tickets with filters.
func (h *Handler) GetTickets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.TicketListFilter{
		Page:      page,
		PageSize:  pageSize,
		EventID:   strings.TrimSpace(c.Query("event_id")),
		BatchCode: strings.TrimSpace(c.Query("batch_code")),
		Kind:      strings.TrimSpace(strings.ToLower(c.Query("kind"))),
		Search:    strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("used")); raw != "" {
		used, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid used filter", err)
			return
		}
		filter.Used = &used
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid is_active filter", err)
			return
		}
		filter.IsActive = &active
	}

	tickets, total, err := h.TicketService.ListTickets(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "ticket fetch failed", err)
		return
	}
	response.SuccessWithPage(c, tickets, response.NewPagination(page, pageSize, total))
}

// GetTicket returns one ticket with its event.
func (h *Handler) GetTicket(c *gin.Context) {
	ticket, err := h.TicketService.GetTicket(strings.TrimSpace(c.Param("id")))
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

// UpdateTicketBuyer edits the buyer fields.
func (h *Handler) UpdateTicketBuyer(c *gin.Context) {
	var req UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	ticket, err := h.TicketService.UpdateBuyer(strings.TrimSpace(c.Param("id")), service.UpdateBuyerInput{
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		BuyerEmail: req.BuyerEmail,
	})
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

// DeleteTicket removes a ticket.
func (h *Handler) DeleteTicket(c *gin.Context) {
	if err := h.TicketService.DeleteTicket(strings.TrimSpace(c.Param("id"))); err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		default:
			respondError(c, response.CodeInternal, "ticket delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetTicketDocument renders a single ticket as a printable document.
func (h *Handler) GetTicketDocument(c *gin.Context) {
	doc, err := h.TicketService.ComposeTicketDocument(strings.TrimSpace(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			respondError(c, response.CodeNotFound, "ticket not found", nil)
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		default:
			respondError(c, response.CodeInternal, "document compose failed", err)
		}
		return
	}
	writeDocument(c, doc.Filename, doc.Document)
}
