package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/document"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/scancode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueService creates credential batches and their printable documents.
type IssueService struct {
	batchRepo  repository.TicketBatchRepository
	ticketRepo repository.TicketRepository
	eventRepo  repository.EventRepository
	compositor *document.Compositor
	cfg        *config.Config
}

// NewIssueService creates the issue service.
func NewIssueService(batchRepo repository.TicketBatchRepository, ticketRepo repository.TicketRepository, eventRepo repository.EventRepository, compositor *document.Compositor, cfg *config.Config) *IssueService {
	return &IssueService{
		batchRepo:  batchRepo,
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
		compositor: compositor,
		cfg:        cfg,
	}
}

// IssueBatchInput describes one batch issuance request.
type IssueBatchInput struct {
	EventID   string
	Kind      string
	CardType  string
	Quantity  int
	BatchCode string
	Note      string
	CreatedBy *uint
}

// IssueBatchResult is a committed batch plus its printable document.
type IssueBatchResult struct {
	Batch    *models.TicketBatch
	Tickets  []models.Ticket
	Document []byte
	Filename string
}

// IssueBatch creates a batch of credentials and composes the PDF, all
// inside one transaction. The requested batch code is kept when free;
// on collision a timestamped suffix is appended and the whole
// transaction is retried, up to a fixed attempt budget. Nothing is
// persisted unless the document also composes.
func (s *IssueService) IssueBatch(input IssueBatchInput) (*IssueBatchResult, error) {
	kind := strings.TrimSpace(strings.ToLower(input.Kind))
	if kind != constants.TicketKindTicket && kind != constants.TicketKindInvitation {
		return nil, ErrBatchInvalid
	}
	requested := strings.TrimSpace(input.BatchCode)
	if requested == "" {
		return nil, ErrBatchInvalid
	}
	if input.Quantity < constants.BatchMinTickets || input.Quantity > constants.BatchMaxTickets {
		return nil, ErrBatchInvalid
	}

	event, err := s.eventRepo.GetByID(strings.TrimSpace(input.EventID))
	if err != nil {
		return nil, ErrEventFetchFailed
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	now := time.Now()
	result := &IssueBatchResult{}
	for attempt := 0; attempt < constants.BatchAllocateAttempts; attempt++ {
		code := requested
		if attempt > 0 {
			code = fmt.Sprintf("%s-%d-%d", requested, now.Unix(), attempt)
		}

		batch := &models.TicketBatch{
			BatchCode: code,
			EventID:   event.ID,
			Kind:      kind,
			CardType:  strings.TrimSpace(input.CardType),
			Quantity:  input.Quantity,
			IsActive:  true,
			Note:      strings.TrimSpace(input.Note),
			CreatedBy: input.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		tickets := s.buildTickets(event, batch, now)

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.batchRepo.WithTx(tx).Create(batch); err != nil {
				return err
			}
			if err := s.ticketRepo.WithTx(tx).CreateBatch(tickets); err != nil {
				return err
			}
			pdf, err := s.composeDocument(event, batch, tickets)
			if err != nil {
				return err
			}
			result.Document = pdf
			return nil
		})
		if err == nil {
			if attempt > 0 {
				logger.Infow("batch code collided, issued with suffix",
					"requested", requested, "batch_code", code, "attempts", attempt+1)
			}
			result.Batch = batch
			result.Tickets = tickets
			result.Filename = fmt.Sprintf("%s-%s.pdf", kind, code)
			return result, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if errors.Is(err, errComposeFailed) {
			return nil, ErrBatchDocumentFailed
		}
		logger.Errorw("batch issuance failed", "batch_code", code, "error", err)
		return nil, ErrBatchCreateFailed
	}
	return nil, ErrBatchCodeExhausted
}

// buildTickets generates the credential rows for one batch. Freshly
// printed credentials start inactive; activation happens at point of
// sale, or implicitly through a buyer binding.
func (s *IssueService) buildTickets(event *models.Event, batch *models.TicketBatch, now time.Time) []models.Ticket {
	tickets := make([]models.Ticket, 0, batch.Quantity)
	for i := 0; i < batch.Quantity; i++ {
		tickets = append(tickets, models.Ticket{
			ID:        uuid.NewString(),
			EventID:   event.ID,
			BatchCode: &batch.BatchCode,
			Kind:      batch.Kind,
			CardType:  batch.CardType,
			IsActive:  false,
			Price:     event.Price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return tickets
}

var errComposeFailed = errors.New("compose failed")

func (s *IssueService) composeDocument(event *models.Event, batch *models.TicketBatch, tickets []models.Ticket) ([]byte, error) {
	items := make([]document.TicketData, 0, len(tickets))
	for _, ticket := range tickets {
		png, err := scancode.EncodePNG(scancode.Payload{
			TicketID:  ticket.ID,
			BatchCode: batch.BatchCode,
			EventID:   event.ID,
			Kind:      ticket.Kind,
		}, s.qrSizePx())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errComposeFailed, err)
		}
		items = append(items, document.TicketData{
			ID:    ticket.ID,
			Kind:  ticket.Kind,
			QRPNG: png,
		})
	}

	pdf, err := s.compositor.Compose(
		document.EventData{Title: event.Title, Date: event.Date, Venue: event.Venue},
		s.branding(event),
		items,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errComposeFailed, err)
	}
	return pdf, nil
}

// RegenerateDocument recomposes the PDF for an existing batch.
func (s *IssueService) RegenerateDocument(batchID uint) (*IssueBatchResult, error) {
	batch, err := s.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	event, err := s.eventRepo.GetByID(batch.EventID)
	if err != nil {
		return nil, ErrEventFetchFailed
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	tickets, err := s.ticketRepo.ListByBatchCode(batch.BatchCode)
	if err != nil || len(tickets) == 0 {
		return nil, ErrBatchFetchFailed
	}

	pdf, err := s.composeDocument(event, batch, tickets)
	if err != nil {
		return nil, ErrBatchDocumentFailed
	}
	return &IssueBatchResult{
		Batch:    batch,
		Tickets:  tickets,
		Document: pdf,
		Filename: fmt.Sprintf("%s-%s.pdf", batch.Kind, batch.BatchCode),
	}, nil
}

// ListBatches lists batches for the admin screen.
func (s *IssueService) ListBatches(filter repository.BatchListFilter) ([]models.TicketBatch, int64, error) {
	batches, total, err := s.batchRepo.List(filter)
	if err != nil {
		return nil, 0, ErrBatchFetchFailed
	}
	return batches, total, nil
}

// GetBatch fetches one batch.
func (s *IssueService) GetBatch(id uint) (*models.TicketBatch, error) {
	batch, err := s.batchRepo.GetByID(id)
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

// SetBatchActive toggles a batch. Deactivating suspends verification
// for every credential in the batch without touching their used flags.
func (s *IssueService) SetBatchActive(id uint, active bool) (*models.TicketBatch, error) {
	rows, err := s.batchRepo.SetActive(id, active, time.Now())
	if err != nil {
		return nil, ErrBatchFetchFailed
	}
	if rows == 0 {
		return nil, ErrBatchNotFound
	}
	return s.GetBatch(id)
}

func (s *IssueService) qrSizePx() int {
	if s.cfg != nil && s.cfg.Ticket.QRCodeSizePx > 0 {
		return s.cfg.Ticket.QRCodeSizePx
	}
	return scancode.DefaultSizePx
}

func (s *IssueService) branding(event *models.Event) document.Branding {
	branding := document.Branding{}
	if s.cfg != nil {
		branding.Organizer = s.cfg.Theatre.Name
		branding.LogoURL = s.cfg.Theatre.LogoURL
		branding.SponsorURLs = s.cfg.Theatre.SponsorURLs
	}
	if event.Organizer != "" {
		branding.Organizer = event.Organizer
	}
	if event.LogoURL != "" {
		branding.LogoURL = event.LogoURL
	}
	if len(event.SponsorLogos) > 0 {
		branding.SponsorURLs = event.SponsorLogos
	}
	return branding
}
