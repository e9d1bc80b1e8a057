package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/stagelight/boxoffice/internal/http/response"
	"github.com/stagelight/boxoffice/internal/service"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// StripeWebhook settles payments from provider notifications. The
// signature is checked over the raw body before anything is decoded.
func (h *Handler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid body", err)
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if err := h.PaymentService.HandleWebhook(signature, body); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentVerifyFailed):
			requestLog(c).Warnw("webhook_signature_rejected", "error", err)
			c.String(http.StatusBadRequest, "signature verification failed")
		case errors.Is(err, service.ErrPaymentNotFound):
			// Unknown payment: acknowledge so the provider stops retrying.
			requestLog(c).Warnw("webhook_payment_unknown")
			c.String(http.StatusOK, "ok")
		default:
			requestLog(c).Errorw("webhook_handle_failed", "error", err)
			c.String(http.StatusInternalServerError, "webhook processing failed")
		}
		return
	}
	c.String(http.StatusOK, "ok")
}
