package service

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/payment/stripe"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutGateway is the slice of the payment client the purchase flow
// needs. *stripe.Client satisfies it.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, input stripe.CheckoutInput) (*stripe.CheckoutResult, error)
}

// ExpireEnqueuer schedules the reservation cleanup task.
type ExpireEnqueuer interface {
	EnqueueTicketExpire(ticketID string, delay time.Duration) error
}

// PurchaseService handles the public buy-a-ticket flow. Free events
// issue immediately; paid events reserve a ticket and redirect the
// buyer to hosted checkout.
type PurchaseService struct {
	ticketRepo  repository.TicketRepository
	paymentRepo repository.PaymentRepository
	eventRepo   repository.EventRepository
	gateway     CheckoutGateway
	enqueuer    ExpireEnqueuer
	cfg         *config.Config
}

// NewPurchaseService creates the purchase service. gateway and
// enqueuer may be nil when payments are disabled.
func NewPurchaseService(ticketRepo repository.TicketRepository, paymentRepo repository.PaymentRepository, eventRepo repository.EventRepository, gateway CheckoutGateway, enqueuer ExpireEnqueuer, cfg *config.Config) *PurchaseService {
	return &PurchaseService{
		ticketRepo:  ticketRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		gateway:     gateway,
		enqueuer:    enqueuer,
		cfg:         cfg,
	}
}

// PurchaseInput is one public purchase request.
type PurchaseInput struct {
	EventID    string
	BuyerName  string
	BuyerPhone string
	BuyerEmail string
}

// PurchaseResult is either an issued ticket (free events) or a
// reservation with a checkout redirect (paid events).
type PurchaseResult struct {
	Ticket           *models.Ticket `json:"ticket"`
	ConfirmationCode string         `json:"confirmation_code,omitempty"`
	CheckoutURL      string         `json:"checkout_url,omitempty"`
}

// Purchase reserves or issues one ticket.
func (s *PurchaseService) Purchase(ctx context.Context, input PurchaseInput) (*PurchaseResult, error) {
	buyerName := strings.TrimSpace(input.BuyerName)
	if buyerName == "" {
		return nil, ErrPurchaseInvalid
	}

	event, err := s.eventRepo.GetByID(strings.TrimSpace(input.EventID))
	if err != nil {
		return nil, ErrEventFetchFailed
	}
	if event == nil || !event.IsPublished {
		return nil, ErrEventNotFound
	}

	if event.Capacity > 0 {
		sold, _, err := s.ticketRepo.CountByEvent(event.ID)
		if err != nil {
			return nil, ErrPurchaseFailed
		}
		if sold >= int64(event.Capacity) {
			return nil, ErrPurchaseSoldOut
		}
	}

	now := time.Now()
	ticket := &models.Ticket{
		ID:         uuid.NewString(),
		EventID:    event.ID,
		Kind:       constants.TicketKindTicket,
		BuyerName:  buyerName,
		BuyerPhone: strings.TrimSpace(input.BuyerPhone),
		BuyerEmail: strings.TrimSpace(input.BuyerEmail),
		Price:      event.Price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if event.IsFree() {
		return s.issueFree(ticket)
	}
	return s.reservePaid(ctx, event, ticket)
}

// issueFree activates the ticket immediately with a confirmation code.
func (s *PurchaseService) issueFree(ticket *models.Ticket) (*PurchaseResult, error) {
	ticket.IsActive = true
	ticket.ConfirmationCode = generateConfirmationCode()
	if err := s.ticketRepo.Create(ticket); err != nil {
		logger.Errorw("free ticket issue failed", "event_id", ticket.EventID, "error", err)
		return nil, ErrPurchaseFailed
	}
	logger.Infow("free ticket issued", "ticket_id", ticket.ID, "event_id", ticket.EventID)
	return &PurchaseResult{Ticket: ticket, ConfirmationCode: ticket.ConfirmationCode}, nil
}

// reservePaid creates an inactive ticket plus a pending payment, then
// opens checkout. The ticket only activates when the webhook confirms
// payment; an expiry task reclaims abandoned reservations.
func (s *PurchaseService) reservePaid(ctx context.Context, event *models.Event, ticket *models.Ticket) (*PurchaseResult, error) {
	if s.cfg == nil || !s.cfg.Payment.Enabled || s.gateway == nil {
		return nil, ErrPaymentDisabled
	}

	payment := &models.Payment{
		TicketID:  ticket.ID,
		Provider:  "stripe",
		Amount:    event.Price,
		Currency:  s.cfg.Payment.Currency,
		Status:    constants.PaymentStatusPending,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.CreatedAt,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ticketRepo.WithTx(tx).Create(ticket); err != nil {
			return err
		}
		return s.paymentRepo.WithTx(tx).Create(payment)
	})
	if err != nil {
		logger.Errorw("reservation create failed", "event_id", event.ID, "error", err)
		return nil, ErrPurchaseFailed
	}

	checkout, err := s.gateway.CreateCheckout(ctx, stripe.CheckoutInput{
		PaymentID:   payment.ID,
		TicketID:    ticket.ID,
		Amount:      event.Price.Decimal.StringFixed(2),
		Currency:    s.cfg.Payment.Currency,
		Description: event.Title,
	})
	if err != nil {
		logger.Errorw("checkout create failed", "payment_id", payment.ID, "error", err)
		return nil, ErrPaymentCreateFailed
	}

	payment.ProviderTxnID = checkout.SessionID
	payment.CheckoutURL = checkout.URL
	payment.UpdatedAt = time.Now()
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, ErrPaymentCreateFailed
	}

	if s.enqueuer != nil {
		delay := time.Duration(s.cfg.Ticket.ReservationExpireMinutes) * time.Minute
		if err := s.enqueuer.EnqueueTicketExpire(ticket.ID, delay); err != nil {
			logger.Warnw("expire task enqueue failed", "ticket_id", ticket.ID, "error", err)
		}
	}
	logger.Infow("ticket reserved", "ticket_id", ticket.ID, "payment_id", payment.ID)
	return &PurchaseResult{Ticket: ticket, CheckoutURL: checkout.URL}, nil
}

// LookupByConfirmationCode lets a buyer retrieve their ticket without
// an account.
func (s *PurchaseService) LookupByConfirmationCode(code string) (*models.Ticket, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrTicketInvalid
	}
	ticket, err := s.ticketRepo.GetByConfirmationCode(code)
	if err != nil {
		return nil, ErrTicketFetchFailed
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// generateConfirmationCode makes a short human-readable code. Not a
// uniqueness anchor; the ticket id is.
func generateConfirmationCode() string {
	buf := make([]byte, 4)
	if _, err := crand.Read(buf); err != nil {
		return fmt.Sprintf("BO-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return "BO-" + strings.ToUpper(hex.EncodeToString(buf))
}
