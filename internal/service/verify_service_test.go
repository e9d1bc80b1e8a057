package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/constants"
	"github.com/stagelight/boxoffice/internal/models"
	"github.com/stagelight/boxoffice/internal/repository"
	"github.com/stagelight/boxoffice/internal/scancode"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVerifyServiceTest(t *testing.T) (*VerifyService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:verify_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.TicketBatch{}, &models.Ticket{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewVerifyService(repository.NewTicketRepository(db), repository.NewTicketBatchRepository(db))
	return svc, db
}

func seedVerifyTicket(t *testing.T, db *gorm.DB, id string, active bool, batchCode *string) *models.Ticket {
	t.Helper()
	event := &models.Event{ID: "evt-" + id, Title: "Spring Show", Date: time.Now().Add(24 * time.Hour), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	if batchCode != nil {
		batch := &models.TicketBatch{BatchCode: *batchCode, EventID: event.ID, Kind: constants.TicketKindTicket, Quantity: 1, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		if err := db.Create(batch).Error; err != nil {
			t.Fatalf("create batch failed: %v", err)
		}
	}
	ticket := &models.Ticket{
		ID:        id,
		EventID:   event.ID,
		BatchCode: batchCode,
		Kind:      constants.TicketKindTicket,
		IsActive:  active,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("create ticket failed: %v", err)
	}
	return ticket
}

func TestVerifyConsumesTicket(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)
	ticket := seedVerifyTicket(t, db, "t-valid", true, nil)

	result, err := svc.Verify(ticket.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !result.Valid || result.Message != constants.VerifyMsgValid {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.UsedAt == nil {
		t.Fatal("used_at not set on success")
	}

	var stored models.Ticket
	if err := db.First(&stored, "id = ?", ticket.ID).Error; err != nil {
		t.Fatalf("reload ticket failed: %v", err)
	}
	if !stored.Used || stored.UsedAt == nil {
		t.Fatalf("ticket not consumed in store: %+v", stored)
	}
}

func TestVerifyExactlyOnce(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)
	ticket := seedVerifyTicket(t, db, "t-once", true, nil)

	validCount := 0
	for i := 0; i < 5; i++ {
		result, err := svc.Verify(ticket.ID)
		if err != nil {
			t.Fatalf("verify %d failed: %v", i, err)
		}
		if result.Valid {
			validCount++
		} else if result.Message != constants.VerifyMsgAlreadyUsed {
			t.Fatalf("unexpected rejection message %q", result.Message)
		}
	}
	if validCount != 1 {
		t.Fatalf("expected exactly one successful scan, got %d", validCount)
	}
}

func TestVerifyScanFormats(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)
	ticket := seedVerifyTicket(t, db, "ab12cd34-0000-4000-8000-1234567890ab", true, nil)

	payload := fmt.Sprintf(`{"ticket_id":%q,"event_id":%q}`, ticket.ID, ticket.EventID)
	result, err := svc.Verify(payload)
	if err != nil {
		t.Fatalf("verify json payload failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("json payload scan rejected: %+v", result)
	}
}

func TestVerifyRejections(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)

	inactive := seedVerifyTicket(t, db, "t-inactive", false, nil)
	batchCode := "SUSPENDED"
	suspended := seedVerifyTicket(t, db, "t-suspended", true, &batchCode)
	if err := db.Model(&models.TicketBatch{}).Where("batch_code = ?", batchCode).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate batch failed: %v", err)
	}

	cases := []struct {
		name string
		scan string
		want string
	}{
		{"unknown ticket", "no-such-ticket", constants.VerifyMsgNotFound},
		// A garbled scan reports the normalizer's message, not "not
		// found", so the operator can tell the two apart.
		{"empty scan", "   ", scancode.ErrNoTicketID.Error()},
		{"inactive ticket", inactive.ID, constants.VerifyMsgNotActivated},
		{"deactivated batch", suspended.ID, constants.VerifyMsgBatchDeactivated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.Verify(tc.scan)
			if err != nil {
				t.Fatalf("verify failed: %v", err)
			}
			if result.Valid {
				t.Fatal("scan should be rejected")
			}
			if result.Message != tc.want {
				t.Fatalf("message = %q, want %q", result.Message, tc.want)
			}
		})
	}

	// A rejected scan must not consume the credential.
	var stored models.Ticket
	if err := db.First(&stored, "id = ?", suspended.ID).Error; err != nil {
		t.Fatalf("reload ticket failed: %v", err)
	}
	if stored.Used {
		t.Fatal("rejected scan consumed the ticket")
	}
}

func TestVerifyBuyerBindingBypassesActivation(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)

	// Unactivated batch ticket bound to a buyer scans valid.
	boundCode := "BOUND"
	bound := seedVerifyTicket(t, db, "t-bound", false, &boundCode)
	if err := db.Model(bound).Update("buyer_name", "Alex Reed").Error; err != nil {
		t.Fatalf("bind buyer failed: %v", err)
	}
	result, err := svc.Verify(bound.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("bound ticket rejected: %+v", result)
	}

	// The binding also overrides a deactivated batch.
	suspCode := "SUSP-BOUND"
	suspBound := seedVerifyTicket(t, db, "t-susp-bound", true, &suspCode)
	if err := db.Model(suspBound).Update("buyer_name", "Sam Ellis").Error; err != nil {
		t.Fatalf("bind buyer failed: %v", err)
	}
	if err := db.Model(&models.TicketBatch{}).Where("batch_code = ?", suspCode).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate batch failed: %v", err)
	}
	result, err = svc.Verify(suspBound.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("bound ticket in deactivated batch rejected: %+v", result)
	}
}

func TestVerifyReportsUsedBeforeActivation(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)

	// A used but never-activated credential reports "already used", not
	// "not activated".
	ticket := seedVerifyTicket(t, db, "t-used-inactive", false, nil)
	now := time.Now()
	if err := db.Model(ticket).Updates(map[string]interface{}{"used": true, "used_at": now}).Error; err != nil {
		t.Fatalf("mark used failed: %v", err)
	}

	result, err := svc.Verify(ticket.ID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if result.Valid || result.Message != constants.VerifyMsgAlreadyUsed {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.UsedAt == nil {
		t.Fatal("used_at should be reported for already used tickets")
	}
}

func TestSetUsedOverride(t *testing.T) {
	svc, db := setupVerifyServiceTest(t)
	ticket := seedVerifyTicket(t, db, "t-override", true, nil)

	if _, err := svc.Verify(ticket.ID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	released, err := svc.SetUsed(ticket.ID, false)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if released.Used || released.UsedAt != nil {
		t.Fatalf("ticket not released: %+v", released)
	}

	// Released credential scans clean again.
	result, err := svc.Verify(ticket.ID)
	if err != nil {
		t.Fatalf("re-verify failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("released ticket rejected: %+v", result)
	}

	forced, err := svc.SetUsed(ticket.ID, true)
	if err != nil {
		t.Fatalf("force use failed: %v", err)
	}
	if !forced.Used || forced.UsedAt == nil {
		t.Fatalf("ticket not forced used: %+v", forced)
	}

	if _, err := svc.SetUsed("missing", true); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("error = %v, want ErrTicketNotFound", err)
	}
}
