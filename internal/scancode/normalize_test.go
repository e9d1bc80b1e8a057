package scancode

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare id", "ab12cd34-0000-4000-8000-1234567890ab", "ab12cd34-0000-4000-8000-1234567890ab"},
		{"surrounding whitespace", "  ab12cd34-0000-4000-8000-1234567890ab\n", "ab12cd34-0000-4000-8000-1234567890ab"},
		{"json ticket_id", `{"ticket_id":"t-100","event_id":"e-1"}`, "t-100"},
		{"json card_id", `{"card_id":"c-200"}`, "c-200"},
		{"json id", `{"id":"x-300"}`, "x-300"},
		{"json prefers ticket_id", `{"id":"x-300","ticket_id":"t-100"}`, "t-100"},
		{"url encoded json", `%7B%22ticket_id%22%3A%22t-100%22%7D`, "t-100"},
		{"query string", "ticket_id=deadbeef-cafe-4000-8000-1234567890ab&source=kiosk", "deadbeef-cafe-4000-8000-1234567890ab"},
		{"loose ticket_id token", `ticket_id: "deadbeefcafe1234"`, "deadbeefcafe1234"},
		{"quoted id", `"t-400"`, "t-400"},
		{"malformed json falls back to token", `{"ticket_id":"deadbeefcafe1234"`, "deadbeefcafe1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeNoTicketID(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n", `""`, `''`} {
		if _, err := Normalize(raw); !errors.Is(err, ErrNoTicketID) {
			t.Fatalf("Normalize(%q) error = %v, want ErrNoTicketID", raw, err)
		}
	}
}

func TestNormalizeJSONWithoutID(t *testing.T) {
	// JSON with no recognized key degrades to the verbatim strategy;
	// the whole object becomes the token and lookup will miss later.
	got, err := Normalize(`{"event_id":"e-1"}`)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if got != `{"event_id":"e-1"}` {
		t.Fatalf("unexpected token %q", got)
	}
}
