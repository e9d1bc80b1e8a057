// Package scancode turns credential identities into scannable QR payloads
// and back. Encoding is used by batch issuance and ticket downloads;
// Normalize is used by the verification flow to recover a ticket id from
// whatever a scanner or operator hands us.
package scancode

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSizePx is scannable at A6 print resolution.
	DefaultSizePx = 256
	minSizePx     = 90
	maxSizePx     = 1024
)

// Payload is the credential identity baked into a printed QR code.
// TicketID alone is enough for verification; the rest helps external
// scanners display context without a lookup.
type Payload struct {
	TicketID  string `json:"ticket_id"`
	BatchCode string `json:"batch_code,omitempty"`
	EventID   string `json:"event_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// EncodePNG renders the payload as a QR code PNG. Pure; any error is an
// encoder failure and fatal to the enclosing request.
func EncodePNG(payload Payload, sizePx int) ([]byte, error) {
	if payload.TicketID == "" {
		return nil, fmt.Errorf("encode qr: empty ticket id")
	}
	if sizePx <= 0 {
		sizePx = DefaultSizePx
	}
	if sizePx < minSizePx {
		sizePx = minSizePx
	}
	if sizePx > maxSizePx {
		sizePx = maxSizePx
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, sizePx)
	if err != nil {
		return nil, fmt.Errorf("encode qr image: %w", err)
	}
	return png, nil
}
