package service

import (
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/payment/stripe"
	"github.com/stagelight/boxoffice/internal/repository"

	"gorm.io/gorm"
)

// WebhookVerifier is the webhook slice of the payment client.
type WebhookVerifier interface {
	VerifyWebhook(signatureHeader string, body []byte, now time.Time) (*stripe.WebhookEvent, error)
}

// PaymentService settles reservations from gateway notifications.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	ticketRepo  repository.TicketRepository
	verifier    WebhookVerifier
}

// NewPaymentService creates the payment service.
func NewPaymentService(paymentRepo repository.PaymentRepository, ticketRepo repository.TicketRepository, verifier WebhookVerifier) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, ticketRepo: ticketRepo, verifier: verifier}
}

// HandleWebhook verifies and applies one gateway notification.
// Idempotent: replaying a settled event is a no-op.
func (s *PaymentService) HandleWebhook(signatureHeader string, body []byte) error {
	if s.verifier == nil {
		return ErrPaymentDisabled
	}
	event, err := s.verifier.VerifyWebhook(signatureHeader, body, time.Now())
	if err != nil {
		logger.Warnw("webhook rejected", "error", err)
		return ErrPaymentVerifyFailed
	}

	payment, err := s.resolvePayment(event)
	if err != nil {
		return err
	}
	if payment == nil {
		logger.Warnw("webhook for unknown payment", "event_id", event.EventID, "session_id", event.SessionID)
		return ErrPaymentNotFound
	}

	switch event.Status {
	case constants.PaymentStatusSuccess:
		return s.settle(payment, event)
	case constants.PaymentStatusExpired, constants.PaymentStatusFailed:
		if payment.Status == constants.PaymentStatusSuccess {
			return nil
		}
		payment.Status = event.Status
		payment.UpdatedAt = time.Now()
		if err := s.paymentRepo.Update(payment); err != nil {
			return ErrPaymentVerifyFailed
		}
		logger.Infow("payment closed", "payment_id", payment.ID, "status", payment.Status)
		return nil
	default:
		return nil
	}
}

// settle marks the payment paid and activates the reserved ticket in
// one transaction.
func (s *PaymentService) settle(payment *models.Payment, event *stripe.WebhookEvent) error {
	if payment.Status == constants.PaymentStatusSuccess {
		return nil
	}

	now := time.Now()
	paidAt := event.PaidAt
	if paidAt == nil {
		paidAt = &now
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = constants.PaymentStatusSuccess
		payment.PaidAt = paidAt
		if event.SessionID != "" {
			payment.ProviderTxnID = event.SessionID
		}
		payment.UpdatedAt = now
		if err := s.paymentRepo.WithTx(tx).Update(payment); err != nil {
			return err
		}

		ticketRepo := s.ticketRepo.WithTx(tx)
		ticket, err := ticketRepo.GetByID(payment.TicketID)
		if err != nil {
			return err
		}
		if ticket == nil {
			return ErrTicketNotFound
		}
		ticket.IsActive = true
		ticket.PaymentID = &payment.ID
		if ticket.ConfirmationCode == "" {
			ticket.ConfirmationCode = generateConfirmationCode()
		}
		ticket.UpdatedAt = now
		return ticketRepo.Update(ticket)
	})
	if err != nil {
		logger.Errorw("payment settle failed", "payment_id", payment.ID, "error", err)
		return ErrPaymentVerifyFailed
	}
	logger.Infow("payment settled", "payment_id", payment.ID, "ticket_id", payment.TicketID)
	return nil
}

func (s *PaymentService) resolvePayment(event *stripe.WebhookEvent) (*models.Payment, error) {
	if event.PaymentID > 0 {
		payment, err := s.paymentRepo.GetByID(event.PaymentID)
		if err != nil {
			return nil, ErrPaymentVerifyFailed
		}
		if payment != nil {
			return payment, nil
		}
	}
	if event.SessionID != "" {
		payment, err := s.paymentRepo.GetByProviderTxnID(event.SessionID)
		if err != nil {
			return nil, ErrPaymentVerifyFailed
		}
		return payment, nil
	}
	return nil, nil
}

// ExpireReservation reclaims an unpaid reservation. Called by the
// queue worker after the reservation window; a ticket that activated
// in the meantime is left alone.
func (s *PaymentService) ExpireReservation(ticketID string) error {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		return ErrTicketFetchFailed
	}
	if ticket == nil || ticket.IsActive {
		return nil
	}

	payment, err := s.paymentRepo.GetLatestForTicket(ticket.ID)
	if err != nil {
		return ErrPaymentVerifyFailed
	}
	if payment != nil && payment.Status == constants.PaymentStatusSuccess {
		return nil
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if payment != nil && payment.Status == constants.PaymentStatusPending {
			payment.Status = constants.PaymentStatusExpired
			payment.UpdatedAt = time.Now()
			if err := s.paymentRepo.WithTx(tx).Update(payment); err != nil {
				return err
			}
		}
		return s.ticketRepo.WithTx(tx).Delete(ticket.ID)
	})
	if err != nil {
		logger.Errorw("reservation expire failed", "ticket_id", ticketID, "error", err)
		return ErrTicketUpdateFailed
	}
	logger.Infow("reservation expired", "ticket_id", ticketID)
	return nil
}
