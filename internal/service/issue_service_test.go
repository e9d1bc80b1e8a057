package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/config"
	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/document"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupIssueServiceTest(t *testing.T) (*IssueService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:issue_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.TicketBatch{}, &models.Ticket{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.Ticket.QRCodeSizePx = 128
	cfg.Theatre.Name = "Stagelight Theatre"

	svc := NewIssueService(
		repository.NewTicketBatchRepository(db),
		repository.NewTicketRepository(db),
		repository.NewEventRepository(db),
		document.NewCompositor(document.NewAssetFetcher(time.Second)),
		cfg,
	)
	return svc, db
}

func seedIssueEvent(t *testing.T, db *gorm.DB, id string) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:          id,
		Title:       "Winter Gala",
		Date:        time.Date(2026, 12, 12, 19, 0, 0, 0, time.UTC),
		Venue:       "Main Hall",
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("15.00")),
		IsPublished: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	return event
}

func TestIssueBatch(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	result, err := svc.IssueBatch(IssueBatchInput{
		EventID:   event.ID,
		Kind:      constants.TicketKindTicket,
		Quantity:  5,
		BatchCode: "WINTER-2026",
		Note:      "front desk",
	})
	if err != nil {
		t.Fatalf("issue batch failed: %v", err)
	}
	if result.Batch.BatchCode != "WINTER-2026" {
		t.Fatalf("expected requested batch code, got %q", result.Batch.BatchCode)
	}
	if result.Filename != "ticket-WINTER-2026.pdf" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if !bytes.HasPrefix(result.Document, []byte("%PDF")) {
		t.Fatal("document is not a PDF")
	}
	if len(result.Tickets) != 5 {
		t.Fatalf("expected 5 tickets, got %d", len(result.Tickets))
	}

	seen := map[string]struct{}{}
	for _, ticket := range result.Tickets {
		if _, dup := seen[ticket.ID]; dup {
			t.Fatalf("duplicate ticket id %s", ticket.ID)
		}
		seen[ticket.ID] = struct{}{}
		if ticket.IsActive || ticket.Used {
			t.Fatalf("ticket in wrong initial state: %+v", ticket)
		}
		if ticket.BatchCode == nil || *ticket.BatchCode != "WINTER-2026" {
			t.Fatalf("ticket not bound to batch: %+v", ticket)
		}
	}

	var count int64
	if err := db.Model(&models.Ticket{}).Where("batch_code = ?", "WINTER-2026").Count(&count).Error; err != nil {
		t.Fatalf("count tickets failed: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 persisted tickets, got %d", count)
	}
}

func TestIssuedCredentialRequiresActivation(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	result, err := svc.IssueBatch(IssueBatchInput{
		EventID: event.ID, Kind: constants.TicketKindTicket, Quantity: 1, BatchCode: "SHELF",
	})
	if err != nil {
		t.Fatalf("issue batch failed: %v", err)
	}
	ticket := result.Tickets[0]

	// A printed but never-sold credential must not scan valid.
	verify := NewVerifyService(repository.NewTicketRepository(db), repository.NewTicketBatchRepository(db))
	scanned, err := verify.Verify(ticket.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if scanned.Valid || scanned.Message != constants.VerifyMsgNotActivated {
		t.Fatalf("unsold credential not rejected: %+v", scanned)
	}

	var stored models.Ticket
	if err := db.First(&stored, "id = ?", ticket.ID).Error; err != nil {
		t.Fatalf("reload ticket failed: %v", err)
	}
	if stored.Used {
		t.Fatal("rejected scan consumed the credential")
	}

	// Point-of-sale activation makes it scannable.
	if err := db.Model(&stored).Update("is_active", true).Error; err != nil {
		t.Fatalf("activate ticket failed: %v", err)
	}
	scanned, err = verify.Verify(ticket.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !scanned.Valid {
		t.Fatalf("activated credential rejected: %+v", scanned)
	}
}

func TestIssueBatchCodeCollision(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	first, err := svc.IssueBatch(IssueBatchInput{
		EventID: event.ID, Kind: constants.TicketKindInvitation, Quantity: 2, BatchCode: "GALA",
	})
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	second, err := svc.IssueBatch(IssueBatchInput{
		EventID: event.ID, Kind: constants.TicketKindInvitation, Quantity: 3, BatchCode: "GALA",
	})
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}

	if second.Batch.BatchCode == first.Batch.BatchCode {
		t.Fatal("collision not resolved, same batch code issued twice")
	}
	if !strings.HasPrefix(second.Batch.BatchCode, "GALA-") {
		t.Fatalf("suffixed code should keep the requested prefix, got %q", second.Batch.BatchCode)
	}
	for _, ticket := range second.Tickets {
		if *ticket.BatchCode != second.Batch.BatchCode {
			t.Fatalf("ticket carries stale batch code %q", *ticket.BatchCode)
		}
	}

	// The failed attempt must not leave orphan rows behind.
	var batches int64
	if err := db.Model(&models.TicketBatch{}).Count(&batches).Error; err != nil {
		t.Fatalf("count batches failed: %v", err)
	}
	if batches != 2 {
		t.Fatalf("expected 2 batches, got %d", batches)
	}
	var tickets int64
	if err := db.Model(&models.Ticket{}).Count(&tickets).Error; err != nil {
		t.Fatalf("count tickets failed: %v", err)
	}
	if tickets != 5 {
		t.Fatalf("expected 5 tickets total, got %d", tickets)
	}
}

func TestIssueBatchValidation(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	cases := []struct {
		name  string
		input IssueBatchInput
		want  error
	}{
		{"bad kind", IssueBatchInput{EventID: event.ID, Kind: "pass", Quantity: 1, BatchCode: "A"}, ErrBatchInvalid},
		{"empty code", IssueBatchInput{EventID: event.ID, Kind: "ticket", Quantity: 1, BatchCode: "  "}, ErrBatchInvalid},
		{"zero quantity", IssueBatchInput{EventID: event.ID, Kind: "ticket", Quantity: 0, BatchCode: "A"}, ErrBatchInvalid},
		{"over limit", IssueBatchInput{EventID: event.ID, Kind: "ticket", Quantity: constants.BatchMaxTickets + 1, BatchCode: "A"}, ErrBatchInvalid},
		{"missing event", IssueBatchInput{EventID: "nope", Kind: "ticket", Quantity: 1, BatchCode: "A"}, ErrEventNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.IssueBatch(tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSetBatchActive(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	result, err := svc.IssueBatch(IssueBatchInput{
		EventID: event.ID, Kind: constants.TicketKindTicket, Quantity: 1, BatchCode: "TOGGLE",
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	batch, err := svc.SetBatchActive(result.Batch.ID, false)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if batch.IsActive {
		t.Fatal("batch should be inactive")
	}

	if _, err := svc.SetBatchActive(9999, false); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("error = %v, want ErrBatchNotFound", err)
	}
}

func TestRegenerateDocument(t *testing.T) {
	svc, db := setupIssueServiceTest(t)
	event := seedIssueEvent(t, db, "evt-1")

	issued, err := svc.IssueBatch(IssueBatchInput{
		EventID: event.ID, Kind: constants.TicketKindTicket, Quantity: 2, BatchCode: "REDO",
	})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	again, err := svc.RegenerateDocument(issued.Batch.ID)
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if !bytes.HasPrefix(again.Document, []byte("%PDF")) {
		t.Fatal("regenerated document is not a PDF")
	}
	if again.Filename != issued.Filename {
		t.Fatalf("filename changed: %q vs %q", again.Filename, issued.Filename)
	}
}
