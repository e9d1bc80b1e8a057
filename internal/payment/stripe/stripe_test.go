package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig(apiBase string) Config {
	return Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		APIBaseURL:    apiBase,
		SuccessURL:    "https://boxoffice.test/thanks",
		CancelURL:     "https://boxoffice.test/cancel",
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret key", func(c *Config) { c.SecretKey = "" }},
		{"missing webhook secret", func(c *Config) { c.WebhookSecret = "" }},
		{"missing success url", func(c *Config) { c.SuccessURL = "" }},
		{"bad api base", func(c *Config) { c.APIBaseURL = "::bad::" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig("https://api.stripe.com")
			tc.mutate(&cfg)
			if _, err := NewClient(cfg); !errors.Is(err, ErrConfigInvalid) {
				t.Fatalf("NewClient error = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

func TestCreateCheckout(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"mode":        r.PostForm.Get("mode"),
			"unit_amount": r.PostForm.Get("line_items[0][price_data][unit_amount]"),
			"currency":    r.PostForm.Get("line_items[0][price_data][currency]"),
			"ticket_id":   r.PostForm.Get("metadata[ticket_id]"),
		}
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.test/cs_test_1","status":"open"}`)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	result, err := client.CreateCheckout(context.Background(), CheckoutInput{
		PaymentID: 7,
		TicketID:  "t-100",
		Amount:    "12.50",
		Currency:  "EUR",
	})
	if err != nil {
		t.Fatalf("CreateCheckout error: %v", err)
	}
	if result.SessionID != "cs_test_1" || result.URL == "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotForm["mode"] != "payment" {
		t.Fatalf("mode = %q", gotForm["mode"])
	}
	if gotForm["unit_amount"] != "1250" {
		t.Fatalf("unit_amount = %q, want 1250", gotForm["unit_amount"])
	}
	if gotForm["currency"] != "eur" {
		t.Fatalf("currency = %q", gotForm["currency"])
	}
	if gotForm["ticket_id"] != "t-100" {
		t.Fatalf("ticket_id = %q", gotForm["ticket_id"])
	}
}

func TestCreateCheckoutRejectsBadAmount(t *testing.T) {
	client, err := NewClient(testConfig("https://api.stripe.com"))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	for _, amount := range []string{"", "abc", "0", "-3"} {
		input := CheckoutInput{TicketID: "t-1", Amount: amount, Currency: "EUR"}
		if _, err := client.CreateCheckout(context.Background(), input); !errors.Is(err, ErrConfigInvalid) {
			t.Fatalf("CreateCheckout(amount=%q) error = %v, want ErrConfigInvalid", amount, err)
		}
	}
}

func signedWebhook(t *testing.T, secret string, at time.Time, body string) string {
	t.Helper()
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), computeSignature(secret, at.Unix(), []byte(body)))
}

func TestVerifyWebhook(t *testing.T) {
	client, err := NewClient(testConfig("https://api.stripe.com"))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","currency":"eur","amount_total":1250,"created":1767222000,"payment_status":"paid","metadata":{"payment_id":"7","ticket_id":"t-100"}}}}`

	event, err := client.VerifyWebhook(signedWebhook(t, "whsec_test", now, body), []byte(body), now)
	if err != nil {
		t.Fatalf("VerifyWebhook error: %v", err)
	}
	if event.EventType != "checkout.session.completed" || event.Status != "success" {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.PaymentID != 7 || event.TicketID != "t-100" {
		t.Fatalf("metadata not decoded: %+v", event)
	}
	if event.Amount != "12.50" || event.Currency != "EUR" {
		t.Fatalf("amount not decoded: %+v", event)
	}
	if event.PaidAt == nil {
		t.Fatal("paid_at not decoded")
	}
}

func TestVerifyWebhookRejectsBadSignature(t *testing.T) {
	client, err := NewClient(testConfig("https://api.stripe.com"))
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	now := time.Now()
	body := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`

	header := signedWebhook(t, "whsec_wrong", now, body)
	if _, err := client.VerifyWebhook(header, []byte(body), now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("error = %v, want ErrSignatureInvalid", err)
	}

	stale := now.Add(-time.Hour)
	header = signedWebhook(t, "whsec_test", stale, body)
	if _, err := client.VerifyWebhook(header, []byte(body), now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("stale timestamp error = %v, want ErrSignatureInvalid", err)
	}

	if _, err := client.VerifyWebhook("", []byte(body), now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("missing header error = %v, want ErrSignatureInvalid", err)
	}
}
