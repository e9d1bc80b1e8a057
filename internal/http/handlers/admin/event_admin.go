package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EventRequest creates or updates an event.
type EventRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Date         string   `json:"date" binding:"required"`
	Venue        string   `json:"venue"`
	Price        string   `json:"price"`
	Capacity     int      `json:"capacity"`
	PosterURL    string   `json:"poster_url"`
	Organizer    string   `json:"organizer"`
	LogoURL      string   `json:"logo_url"`
	SponsorLogos []string `json:"sponsor_logos"`
	IsPublished  *bool    `json:"is_published"`
}

func (r EventRequest) toInput() (service.EventInput, error) {
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Date))
	if err != nil {
		return service.EventInput{}, err
	}
	price := decimal.Zero
	if raw := strings.TrimSpace(r.Price); raw != "" {
		price, err = decimal.NewFromString(raw)
		if err != nil {
			return service.EventInput{}, err
		}
	}
	return service.EventInput{
		Title:        r.Title,
		Description:  r.Description,
		Date:         date,
		Venue:        r.Venue,
		Price:        models.NewMoneyFromDecimal(price),
		Capacity:     r.Capacity,
		PosterURL:    r.PosterURL,
		Organizer:    r.Organizer,
		LogoURL:      r.LogoURL,
		SponsorLogos: r.SponsorLogos,
		IsPublished:  r.IsPublished,
	}, nil
}

// CreateEvent creates an event.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	event, err := h.EventService.CreateEvent(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventInvalid):
			respondError(c, response.CodeBadRequest, "event invalid", nil)
		default:
			respondError(c, response.CodeInternal, "event create failed", err)
		}
		return
	}
	response.Success(c, event)
}

// UpdateEvent updates an event.
func (h *Handler) UpdateEvent(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	event, err := h.EventService.UpdateEvent(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		case errors.Is(err, service.ErrEventInvalid):
			respondError(c, response.CodeBadRequest, "event invalid", nil)
		default:
			respondError(c, response.CodeInternal, "event update failed", err)
		}
		return
	}
	response.Success(c, event)
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.EventService.DeleteEvent(id); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		default:
			respondError(c, response.CodeInternal, "event delete failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminEvent returns one event, published or not.
func (h *Handler) GetAdminEvent(c *gin.Context) {
	event, err := h.EventService.GetEvent(strings.TrimSpace(c.Param("id")))
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

// GetAdminEvents lists events with paging and search.
func (h *Handler) GetAdminEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	events, total, err := h.EventService.ListEvents(repository.EventListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "event fetch failed", err)
		return
	}
	response.SuccessWithPage(c, events, response.NewPagination(page, pageSize, total))
}

// GetEventStats returns sales counters for an event.
func (h *Handler) GetEventStats(c *gin.Context) {
	stats, err := h.EventService.GetEventStats(strings.TrimSpace(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		default:
			respondError(c, response.CodeInternal, "event fetch failed", err)
		}
		return
	}
	response.Success(c, stats)
}
