package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/payment/stripe"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeVerifier struct {
	event *stripe.WebhookEvent
	err   error
}

func (v *fakeVerifier) VerifyWebhook(_ string, _ []byte, _ time.Time) (*stripe.WebhookEvent, error) {
	return v.event, v.err
}

func setupPaymentServiceTest(t *testing.T, verifier WebhookVerifier) (*PaymentService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.Ticket{}, &models.Payment{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewPaymentService(repository.NewPaymentRepository(db), repository.NewTicketRepository(db), verifier)
	return svc, db
}

func seedReservation(t *testing.T, db *gorm.DB, ticketID string) *models.Payment {
	t.Helper()
	event := &models.Event{ID: "evt-" + ticketID, Title: "Paid Show", Date: time.Now().Add(24 * time.Hour), Price: models.NewMoneyFromDecimal(decimal.RequireFromString("18.00")), IsPublished: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	ticket := &models.Ticket{ID: ticketID, EventID: event.ID, Kind: constants.TicketKindTicket, BuyerName: "Ben", Price: event.Price, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}
	payment := &models.Payment{TicketID: ticketID, Provider: "stripe", ProviderTxnID: "cs_" + ticketID, Amount: event.Price, Currency: "EUR", Status: constants.PaymentStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return payment
}

func TestHandleWebhookSettles(t *testing.T) {
	verifier := &fakeVerifier{}
	svc, db := setupPaymentServiceTest(t, verifier)
	payment := seedReservation(t, db, "t-pay")

	paidAt := time.Now().Add(-time.Minute)
	verifier.event = &stripe.WebhookEvent{
		EventID:   "evt_1",
		EventType: "checkout.session.completed",
		PaymentID: payment.ID,
		TicketID:  "t-pay",
		SessionID: payment.ProviderTxnID,
		Status:    constants.PaymentStatusSuccess,
		PaidAt:    &paidAt,
	}

	if err := svc.HandleWebhook("sig", []byte("{}")); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	var storedPayment models.Payment
	if err := db.First(&storedPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if storedPayment.Status != constants.PaymentStatusSuccess || storedPayment.PaidAt == nil {
		t.Fatalf("payment not settled: %+v", storedPayment)
	}

	var ticket models.Ticket
	if err := db.First(&ticket, "id = ?", "t-pay").Error; err != nil {
		t.Fatalf("reload ticket failed: %v", err)
	}
	if !ticket.IsActive || ticket.ConfirmationCode == "" || ticket.PaymentID == nil {
		t.Fatalf("ticket not activated: %+v", ticket)
	}

	// Replay is a no-op.
	if err := svc.HandleWebhook("sig", []byte("{}")); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
}

func TestHandleWebhookResolvesBySession(t *testing.T) {
	verifier := &fakeVerifier{}
	svc, db := setupPaymentServiceTest(t, verifier)
	payment := seedReservation(t, db, "t-session")

	verifier.event = &stripe.WebhookEvent{
		EventID:   "evt_2",
		EventType: "checkout.session.completed",
		SessionID: payment.ProviderTxnID,
		Status:    constants.PaymentStatusSuccess,
	}
	if err := svc.HandleWebhook("sig", []byte("{}")); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	var stored models.Payment
	if err := db.First(&stored, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if stored.Status != constants.PaymentStatusSuccess {
		t.Fatalf("payment not settled: %+v", stored)
	}
}

func TestHandleWebhookExpired(t *testing.T) {
	verifier := &fakeVerifier{}
	svc, db := setupPaymentServiceTest(t, verifier)
	payment := seedReservation(t, db, "t-exp")

	verifier.event = &stripe.WebhookEvent{
		EventID:   "evt_3",
		EventType: "checkout.session.expired",
		PaymentID: payment.ID,
		Status:    constants.PaymentStatusExpired,
	}
	if err := svc.HandleWebhook("sig", []byte("{}")); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	var stored models.Payment
	if err := db.First(&stored, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if stored.Status != constants.PaymentStatusExpired {
		t.Fatalf("payment status = %q", stored.Status)
	}

	var ticket models.Ticket
	if err := db.First(&ticket, "id = ?", "t-exp").Error; err != nil {
		t.Fatalf("reload ticket failed: %v", err)
	}
	if ticket.IsActive {
		t.Fatal("expired payment must not activate the ticket")
	}
}

func TestHandleWebhookRejections(t *testing.T) {
	verifier := &fakeVerifier{err: stripe.ErrSignatureInvalid}
	svc, _ := setupPaymentServiceTest(t, verifier)

	if err := svc.HandleWebhook("sig", []byte("{}")); !errors.Is(err, ErrPaymentVerifyFailed) {
		t.Fatalf("error = %v, want ErrPaymentVerifyFailed", err)
	}

	verifier.err = nil
	verifier.event = &stripe.WebhookEvent{EventID: "evt_4", Status: constants.PaymentStatusSuccess, PaymentID: 999}
	if err := svc.HandleWebhook("sig", []byte("{}")); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("error = %v, want ErrPaymentNotFound", err)
	}
}

func TestExpireReservation(t *testing.T) {
	svc, db := setupPaymentServiceTest(t, nil)
	payment := seedReservation(t, db, "t-stale")

	if err := svc.ExpireReservation("t-stale"); err != nil {
		t.Fatalf("expire failed: %v", err)
	}

	var stored models.Payment
	if err := db.First(&stored, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if stored.Status != constants.PaymentStatusExpired {
		t.Fatalf("payment status = %q", stored.Status)
	}
	var count int64
	if err := db.Model(&models.Ticket{}).Where("id = ?", "t-stale").Count(&count).Error; err != nil {
		t.Fatalf("count tickets failed: %v", err)
	}
	if count != 0 {
		t.Fatal("stale reservation not removed")
	}

	// Active tickets are left alone.
	seedReservation(t, db, "t-live")
	if err := db.Model(&models.Ticket{}).Where("id = ?", "t-live").Update("is_active", true).Error; err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if err := svc.ExpireReservation("t-live"); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	var live models.Ticket
	if err := db.First(&live, "id = ?", "t-live").Error; err != nil {
		t.Fatalf("live ticket removed: %v", err)
	}

	// Unknown ticket is a no-op.
	if err := svc.ExpireReservation("missing"); err != nil {
		t.Fatalf("expire missing failed: %v", err)
	}
}
