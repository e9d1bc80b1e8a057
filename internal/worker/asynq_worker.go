package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stagelight/boxoffice/internal/logger"
	"github.com/stagelight/boxoffice/internal/provider"
	"github.com/stagelight/boxoffice/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles background tasks against the shared container.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskTicketExpire, c.handleTicketExpire)
}

// handleTicketExpire reclaims an unpaid reservation after the window.
// The service re-checks state, so a late task against a paid ticket is
// harmless.
func (c *Consumer) handleTicketExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.TicketExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ticket_expire_unmarshal_failed", "error", err)
		return err
	}
	ticketID := strings.TrimSpace(payload.TicketID)
	if ticketID == "" {
		logger.Debugw("worker_ticket_expire_skip_empty_payload")
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_ticket_expire_skip_payment_service_nil", "ticket_id", ticketID)
		return nil
	}
	if err := c.PaymentService.ExpireReservation(ticketID); err != nil {
		logger.Warnw("worker_ticket_expire_failed", "ticket_id", ticketID, "error", err)
		return err
	}
	return nil
}
