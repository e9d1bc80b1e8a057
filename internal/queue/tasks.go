package queue

import (
	"encoding/json"

	"github.com/stagelight/boxoffice/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskTicketExpire reclaims an unpaid ticket reservation.
const TaskTicketExpire = constants.TaskTicketExpire

// TicketExpirePayload is the reservation cleanup task payload.
type TicketExpirePayload struct {
	TicketID string `json:"ticket_id"`
}

// NewTicketExpireTask builds the reservation cleanup task.
func NewTicketExpireTask(payload TicketExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTicketExpire, body), nil
}
