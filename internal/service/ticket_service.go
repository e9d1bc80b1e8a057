package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/document"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/scancode"
)

// TicketService covers admin ticket management and single-ticket
// document downloads.
type TicketService struct {
	ticketRepo repository.TicketRepository
	eventRepo  repository.EventRepository
	compositor *document.Compositor
	cfg        *config.Config
}

// NewTicketService creates the ticket service.
func NewTicketService(ticketRepo repository.TicketRepository, eventRepo repository.EventRepository, compositor *document.Compositor, cfg *config.Config) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, eventRepo: eventRepo, compositor: compositor, cfg: cfg}
}

// GetTicket fetches one ticket with its event.
func (s *TicketService) GetTicket(id string) (*models.Ticket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrTicketInvalid
	}
	ticket, err := s.ticketRepo.GetByIDWithEvent(id)
	if err != nil {
		return nil, ErrTicketFetchFailed
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// ListTickets lists tickets with filtering.
func (s *TicketService) ListTickets(filter repository.TicketListFilter) ([]models.Ticket, int64, error) {
	tickets, total, err := s.ticketRepo.List(filter)
	if err != nil {
		return nil, 0, ErrTicketFetchFailed
	}
	return tickets, total, nil
}

// UpdateBuyerInput are the editable buyer fields.
type UpdateBuyerInput struct {
	BuyerName  string
	BuyerPhone string
	BuyerEmail string
}

// UpdateBuyer binds or edits the buyer details of a ticket.
func (s *TicketService) UpdateBuyer(id string, input UpdateBuyerInput) (*models.Ticket, error) {
	ticket, err := s.GetTicket(id)
	if err != nil {
		return nil, err
	}
	ticket.BuyerName = strings.TrimSpace(input.BuyerName)
	ticket.BuyerPhone = strings.TrimSpace(input.BuyerPhone)
	ticket.BuyerEmail = strings.TrimSpace(input.BuyerEmail)
	ticket.UpdatedAt = time.Now()
	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, ErrTicketUpdateFailed
	}
	return ticket, nil
}

// DeleteTicket soft-deletes a ticket.
func (s *TicketService) DeleteTicket(id string) error {
	if _, err := s.GetTicket(id); err != nil {
		return err
	}
	if err := s.ticketRepo.Delete(strings.TrimSpace(id)); err != nil {
		return ErrTicketUpdateFailed
	}
	return nil
}

// TicketDocument is a single-ticket PDF download.
type TicketDocument struct {
	Document []byte
	Filename string
}

// ComposeTicketDocument renders one ticket as a one-page PDF, used for
// re-sending a purchased ticket to its buyer.
func (s *TicketService) ComposeTicketDocument(id string) (*TicketDocument, error) {
	ticket, err := s.GetTicket(id)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ticket.EventID)
	if err != nil || event == nil {
		return nil, ErrEventNotFound
	}

	size := scancode.DefaultSizePx
	if s.cfg != nil && s.cfg.Ticket.QRCodeSizePx > 0 {
		size = s.cfg.Ticket.QRCodeSizePx
	}
	batchCode := ""
	if ticket.BatchCode != nil {
		batchCode = *ticket.BatchCode
	}
	png, err := scancode.EncodePNG(scancode.Payload{
		TicketID:  ticket.ID,
		BatchCode: batchCode,
		EventID:   event.ID,
		Kind:      ticket.Kind,
	}, size)
	if err != nil {
		return nil, ErrBatchDocumentFailed
	}

	branding := document.Branding{Organizer: event.Organizer, LogoURL: event.LogoURL, SponsorURLs: event.SponsorLogos}
	if s.cfg != nil && branding.Organizer == "" {
		branding.Organizer = s.cfg.Theatre.Name
	}
	pdf, err := s.compositor.Compose(
		document.EventData{Title: event.Title, Date: event.Date, Venue: event.Venue},
		branding,
		[]document.TicketData{{
			ID:         ticket.ID,
			Kind:       ticket.Kind,
			BuyerName:  ticket.BuyerName,
			BuyerPhone: ticket.BuyerPhone,
			QRPNG:      png,
		}},
	)
	if err != nil {
		return nil, ErrBatchDocumentFailed
	}
	return &TicketDocument{
		Document: pdf,
		Filename: fmt.Sprintf("%s-%s.pdf", ticket.Kind, document.ShortID(ticket.ID)),
	}, nil
}
