package service

import (
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/scancode"
)

// VerifyService checks credentials at the door. A successful check
// consumes the credential: verification and redemption are one step.
type VerifyService struct {
	ticketRepo repository.TicketRepository
	batchRepo  repository.TicketBatchRepository
}

// NewVerifyService creates the verify service.
func NewVerifyService(ticketRepo repository.TicketRepository, batchRepo repository.TicketBatchRepository) *VerifyService {
	return &VerifyService{ticketRepo: ticketRepo, batchRepo: batchRepo}
}

// VerifyResult is what the scanning operator sees.
type VerifyResult struct {
	Valid   bool           `json:"valid"`
	Message string         `json:"message"`
	Ticket  *models.Ticket `json:"ticket,omitempty"`
	UsedAt  *time.Time     `json:"used_at,omitempty"`
}

// Verify normalizes a raw scan payload, resolves the credential and
// atomically marks it used. The conditional update is the single
// source of truth for first-scan-wins; two concurrent scans of the
// same credential cannot both succeed.
func (s *VerifyService) Verify(rawScan string) (*VerifyResult, error) {
	// The normalizer's own message distinguishes a garbled scan from a
	// missing ticket.
	id, err := scancode.Normalize(rawScan)
	if err != nil {
		return &VerifyResult{Valid: false, Message: err.Error()}, nil
	}

	ticket, err := s.ticketRepo.GetByIDWithEvent(id)
	if err != nil {
		return nil, ErrTicketFetchFailed
	}
	if ticket == nil {
		return &VerifyResult{Valid: false, Message: constants.VerifyMsgNotFound}, nil
	}
	if ticket.Used {
		return &VerifyResult{Valid: false, Message: constants.VerifyMsgAlreadyUsed, Ticket: ticket, UsedAt: ticket.UsedAt}, nil
	}
	// A buyer binding counts as activation for batch-issued credentials
	// and also overrides a deactivated batch.
	if ticket.IsBatchIssued() {
		if !ticket.IsActive && !ticket.HasBuyerBinding() {
			return &VerifyResult{Valid: false, Message: constants.VerifyMsgNotActivated, Ticket: ticket}, nil
		}
		batch, err := s.batchRepo.GetByCode(*ticket.BatchCode)
		if err != nil {
			return nil, ErrBatchFetchFailed
		}
		if batch != nil && !batch.IsActive && !ticket.HasBuyerBinding() {
			return &VerifyResult{Valid: false, Message: constants.VerifyMsgBatchDeactivated, Ticket: ticket}, nil
		}
	} else if !ticket.IsActive {
		// Online purchase still awaiting payment settlement.
		return &VerifyResult{Valid: false, Message: constants.VerifyMsgNotActivated, Ticket: ticket}, nil
	}

	now := time.Now()
	rows, err := s.ticketRepo.MarkUsedIfUnused(ticket.ID, now)
	if err != nil {
		return nil, ErrTicketUpdateFailed
	}
	if rows == 0 {
		// Lost the race or already used; re-read for the used_at stamp.
		current, err := s.ticketRepo.GetByIDWithEvent(ticket.ID)
		if err != nil || current == nil {
			return &VerifyResult{Valid: false, Message: constants.VerifyMsgAlreadyUsed, Ticket: ticket}, nil
		}
		return &VerifyResult{Valid: false, Message: constants.VerifyMsgAlreadyUsed, Ticket: current, UsedAt: current.UsedAt}, nil
	}

	ticket.Used = true
	ticket.UsedAt = &now
	logger.Infow("ticket consumed", "ticket_id", ticket.ID, "event_id", ticket.EventID)
	return &VerifyResult{Valid: true, Message: constants.VerifyMsgValid, Ticket: ticket, UsedAt: &now}, nil
}

// SetUsed is the admin override. Unlike Verify it is unconditional in
// both directions and can release a mistakenly consumed credential.
func (s *VerifyService) SetUsed(id string, used bool) (*models.Ticket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrTicketInvalid
	}
	rows, err := s.ticketRepo.SetUsed(id, used, time.Now())
	if err != nil {
		return nil, ErrTicketUpdateFailed
	}
	if rows == 0 {
		return nil, ErrTicketNotFound
	}
	logger.Infow("ticket used flag overridden", "ticket_id", id, "used", used)
	return s.ticketRepo.GetByID(id)
}
