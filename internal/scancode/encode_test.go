package scancode

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestEncodePNG(t *testing.T) {
	payload := Payload{
		TicketID:  "ab12cd34-0000-4000-8000-1234567890ab",
		BatchCode: "SPRING-2026",
		EventID:   "e-1",
		Kind:      "ticket",
	}
	png, err := EncodePNG(payload, 0)
	if err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatal("output is not a PNG")
	}

	again, err := EncodePNG(payload, 0)
	if err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}
	if !bytes.Equal(png, again) {
		t.Fatal("encoding the same payload twice produced different images")
	}
}

func TestEncodePNGEmptyTicketID(t *testing.T) {
	if _, err := EncodePNG(Payload{}, 256); err == nil {
		t.Fatal("expected error for empty ticket id")
	}
}

func TestEncodePNGSizeClamped(t *testing.T) {
	for _, size := range []int{-5, 1, 10_000} {
		if _, err := EncodePNG(Payload{TicketID: "t-1"}, size); err != nil {
			t.Fatalf("EncodePNG(size=%d) error: %v", size, err)
		}
	}
}
