package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

const pdfContentType = "application/pdf"

// IssueBatchRequest creates a batch of credentials. The kind comes
// from the route, not the body.
type IssueBatchRequest struct {
	EventID   string `json:"event_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	BatchCode string `json:"batch_code" binding:"required"`
	CardType  string `json:"card_type"`
	Note      string `json:"note"`
}

// SetBatchActiveRequest toggles a batch.
type SetBatchActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// IssueTicketBatch creates a batch of regular tickets.
func (h *Handler) IssueTicketBatch(c *gin.Context) {
	h.issueBatch(c, constants.TicketKindTicket)
}

// IssueInvitationBatch creates a batch of invitation cards.
func (h *Handler) IssueInvitationBatch(c *gin.Context) {
	h.issueBatch(c, constants.TicketKindInvitation)
}

// issueBatch creates a credential batch and streams the printable
// document back as the response body.
func (h *Handler) issueBatch(c *gin.Context, kind string) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req IssueBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	result, err := h.IssueService.IssueBatch(service.IssueBatchInput{
		EventID:   req.EventID,
		Kind:      kind,
		CardType:  req.CardType,
		Quantity:  req.Quantity,
		BatchCode: req.BatchCode,
		Note:      req.Note,
		CreatedBy: &adminID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchInvalid):
			respondError(c, response.CodeBadRequest, "batch invalid", nil)
		case errors.Is(err, service.ErrEventNotFound):
			respondError(c, response.CodeNotFound, "event not found", nil)
		case errors.Is(err, service.ErrBatchCodeExhausted):
			respondError(c, response.CodeConflict, "batch code exhausted", err)
		case errors.Is(err, service.ErrBatchDocumentFailed):
			respondError(c, response.CodeInternal, "document compose failed", err)
		default:
			respondError(c, response.CodeInternal, "batch create failed", err)
		}
		return
	}
	requestLog(c).Infow("batch_issued",
		"batch_id", result.Batch.ID,
		"batch_code", result.Batch.BatchCode,
		"quantity", len(result.Tickets),
	)
	writeDocument(c, result.Filename, result.Document)
}

// GetBatches lists batches.
func (h *Handler) GetBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	batches, total, err := h.IssueService.ListBatches(repository.BatchListFilter{
		Page:     page,
		PageSize: pageSize,
		EventID:  strings.TrimSpace(c.Query("event_id")),
		Kind:     strings.TrimSpace(strings.ToLower(c.Query("kind"))),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "batch fetch failed", err)
		return
	}
	response.SuccessWithPage(c, batches, response.NewPagination(page, pageSize, total))
}

// GetBatch returns one batch.
func (h *Handler) GetBatch(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	batch, err := h.IssueService.GetBatch(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			respondError(c, response.CodeNotFound, "batch not found", nil)
		default:
			respondError(c, response.CodeInternal, "batch fetch failed", err)
		}
		return
	}
	response.Success(c, batch)
}

// GetBatchDocument re-composes the printable document for a batch.
func (h *Handler) GetBatchDocument(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	result, err := h.IssueService.RegenerateDocument(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			respondError(c, response.CodeNotFound, "batch not found", nil)
		case errors.Is(err, service.ErrBatchDocumentFailed):
			respondError(c, response.CodeInternal, "document compose failed", err)
		default:
			respondError(c, response.CodeInternal, "batch fetch failed", err)
		}
		return
	}
	writeDocument(c, result.Filename, result.Document)
}

// SetBatchActive toggles whether a batch's credentials verify.
func (h *Handler) SetBatchActive(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		return
	}
	var req SetBatchActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	batch, err := h.IssueService.SetBatchActive(id, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			respondError(c, response.CodeNotFound, "batch not found", nil)
		default:
			respondError(c, response.CodeInternal, "batch update failed", err)
		}
		return
	}
	response.Success(c, batch)
}

func parsePathUint(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(parsed), true
}

func writeDocument(c *gin.Context, filename string, document []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, pdfContentType, document)
}
