package scancode

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNoTicketID is returned when no usable identifier can be extracted.
var ErrNoTicketID = errors.New("no ticket id found in scan payload")

// parseFunc attempts one payload format; ok=false means try the next.
type parseFunc func(text string) (string, bool)

// parsers are attempted in order. Scan sources are heterogeneous: ids
// typed by hand, QR payloads that are raw ids, JSON payloads from our
// own encoder, and legacy query-string fragments.
var parsers = []parseFunc{
	parseJSONObject,
	parseTicketIDToken,
	parseBareToken,
}

var ticketIDPattern = regexp.MustCompile(`(?i)ticket[_-]?id["':=\s]*([0-9a-fA-F-]{8,})`)

// Normalize extracts a canonical ticket id from a raw scan payload.
// It is strict only about non-emptiness of the final token.
func Normalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrNoTicketID
	}

	// Best effort: some scanner apps URL-encode the payload.
	if decoded, err := url.QueryUnescape(text); err == nil {
		if trimmed := strings.TrimSpace(decoded); trimmed != "" {
			text = trimmed
		}
	}

	for _, parse := range parsers {
		if id, ok := parse(text); ok {
			return id, nil
		}
	}
	return "", ErrNoTicketID
}

// parseJSONObject reads ticket_id / card_id / id out of a JSON payload.
func parseJSONObject(text string) (string, bool) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return "", false
	}
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return "", false
	}
	for _, key := range []string{"ticket_id", "card_id", "id"} {
		if value, ok := fields[key]; ok {
			if id, ok := value.(string); ok && strings.TrimSpace(id) != "" {
				return strings.TrimSpace(id), true
			}
		}
	}
	return "", false
}

// parseTicketIDToken handles partial/legacy formats that mention
// ticket_id without being well-formed JSON.
func parseTicketIDToken(text string) (string, bool) {
	if !strings.Contains(strings.ToLower(text), "ticket_id") {
		return "", false
	}
	if match := ticketIDPattern.FindStringSubmatch(text); len(match) == 2 {
		return match[1], true
	}
	if values, err := url.ParseQuery(text); err == nil {
		if id := strings.TrimSpace(values.Get("ticket_id")); id != "" {
			return id, true
		}
	}
	return "", false
}

// parseBareToken strips wrapping quotes and takes the rest verbatim.
func parseBareToken(text string) (string, bool) {
	id := strings.TrimSpace(strings.Trim(text, `"'`))
	if id == "" {
		return "", false
	}
	return id, true
}
