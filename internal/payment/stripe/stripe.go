// Package stripe is a minimal Stripe Checkout client covering the two
// flows the box office needs: creating a hosted checkout session for a
// reserved ticket and verifying the webhook that confirms payment.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL       = "https://api.stripe.com"
	defaultTimeout          = 12 * time.Second
	defaultWebhookTolerance = 300 * time.Second
)

// Ticket sales are priced in two-decimal currencies; JPY-style
// zero-decimal currencies are the only exception worth handling.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {}, "KRW": {}, "VND": {},
}

// Config holds the gateway credentials and redirect targets.
type Config struct {
	SecretKey     string
	WebhookSecret string
	APIBaseURL    string
	SuccessURL    string
	CancelURL     string
}

// Client talks to one Stripe account.
type Client struct {
	cfg  Config
	http *http.Client
}

// CheckoutInput describes one ticket purchase to collect payment for.
type CheckoutInput struct {
	PaymentID   uint
	TicketID    string
	Amount      string
	Currency    string
	Description string
}

// CheckoutResult is the created hosted checkout session.
type CheckoutResult struct {
	SessionID string
	URL       string
	Status    string
}

// WebhookEvent is a verified, decoded webhook notification.
type WebhookEvent struct {
	EventID   string
	EventType string
	PaymentID uint
	TicketID  string
	SessionID string
	Status    string
	Amount    string
	Currency  string
	PaidAt    *time.Time
}

// NewClient validates the config and returns a client.
func NewClient(cfg Config) (*Client, error) {
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	cfg.WebhookSecret = strings.TrimSpace(cfg.WebhookSecret)
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.SuccessURL = strings.TrimSpace(cfg.SuccessURL)
	cfg.CancelURL = strings.TrimSpace(cfg.CancelURL)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, fmt.Errorf("%w: success_url and cancel_url are required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: defaultTimeout}}, nil
}

// CreateCheckout opens a hosted checkout session for one ticket.
func (c *Client) CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ticketID := strings.TrimSpace(input.TicketID)
	if ticketID == "" {
		return nil, fmt.Errorf("%w: ticket_id is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minorAmount, err := toMinorAmount(input.Amount, currency)
	if err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(input.Description)
	if subject == "" {
		subject = "Ticket " + ticketID
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("client_reference_id", ticketID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(minorAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", subject)
	form.Set("metadata[payment_id]", strconv.FormatUint(uint64(input.PaymentID), 10))
	form.Set("metadata[ticket_id]", ticketID)
	form.Add("payment_method_types[]", "card")

	body, status, err := c.postForm(ctx, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: create checkout session status %d", ErrResponseInvalid, status)
	}

	raw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	result := &CheckoutResult{
		SessionID: readString(raw, "id"),
		URL:       readString(raw, "url"),
		Status:    readString(raw, "status"),
	}
	if result.SessionID == "" || result.URL == "" {
		return nil, fmt.Errorf("%w: missing session id or url", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw body
// and decodes the event. The signature scheme is HMAC-SHA256 over
// "<timestamp>.<body>".
func (c *Client) VerifyWebhook(signatureHeader string, body []byte, now time.Time) (*WebhookEvent, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	if math.Abs(float64(now.Unix()-timestamp)) > defaultWebhookTolerance.Seconds() {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	expected := computeSignature(c.cfg.WebhookSecret, timestamp, body)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	eventRaw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	eventType := readString(eventRaw, "type")
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	dataRaw, ok := eventRaw["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing data object", ErrResponseInvalid)
	}
	objectRaw, ok := dataRaw["object"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	event := &WebhookEvent{
		EventID:   readString(eventRaw, "id"),
		EventType: eventType,
		SessionID: readString(objectRaw, "id"),
		Currency:  strings.ToUpper(readString(objectRaw, "currency")),
		Status:    mapEventStatus(eventType, readString(objectRaw, "payment_status")),
	}
	metadata := readMap(objectRaw, "metadata")
	event.TicketID = readString(metadata, "ticket_id")
	event.PaymentID = parsePaymentID(metadata)
	if minor := readInt64(objectRaw, "amount_total"); minor > 0 && event.Currency != "" {
		event.Amount = fromMinorAmount(minor, event.Currency)
	}
	if created := readInt64(objectRaw, "created"); created > 0 {
		paidAt := time.Unix(created, 0)
		event.PaidAt = &paidAt
	}
	return event, nil
}

func mapEventStatus(eventType, paymentStatus string) string {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		return "success"
	case "checkout.session.expired":
		return "expired"
	case "checkout.session.async_payment_failed":
		return "failed"
	}
	if strings.EqualFold(paymentStatus, "paid") {
		return "success"
	}
	return "pending"
}

func parsePaymentID(metadata map[string]interface{}) uint {
	raw := readString(metadata, "payment_id")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func toMinorAmount(amount string, currency string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	minor := parsed.Shift(int32(currencyScale(currency))).Round(0)
	return minor.IntPart(), nil
}

func fromMinorAmount(minor int64, currency string) string {
	scale := int32(currencyScale(currency))
	return decimal.NewFromInt(minor).Shift(-scale).StringFixed(scale)
}

func currencyScale(currency string) int {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return 0
	}
	return 2
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	payload := strconv.FormatInt(timestamp, 10) + "." + string(body)
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(payload))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	timestamp := int64(0)
	signatures := make([]string, 0)
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "t":
			parsed, err := strconv.ParseInt(strings.TrimSpace(kv[1]), 10, 64)
			if err != nil || parsed <= 0 {
				return 0, nil, fmt.Errorf("%w: invalid timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			if value := strings.TrimSpace(kv[1]); value != "" {
				signatures = append(signatures, strings.ToLower(value))
			}
		}
	}
	if timestamp <= 0 {
		return 0, nil, fmt.Errorf("%w: timestamp is missing", ErrSignatureInvalid)
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: v1 signature is missing", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	default:
		return ""
	}
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil {
		return nil
	}
	mapped, _ := raw[key].(map[string]interface{})
	return mapped
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil {
		return 0
	}
	switch typed := raw[key].(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
