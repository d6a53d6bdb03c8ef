package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/email"
)

// TaskOrderConfirmation is the task type routed to the order email handler.
const TaskOrderConfirmation = "email:order_confirmation"

// OrderConfirmationPayload is the JSON payload of the order email task.
type OrderConfirmationPayload struct {
	To      string                  `json:"to"`
	OrderID int64                   `json:"order_id"`
	Email   email.OrderConfirmation `json:"email"`
}

// NewOrderConfirmationTask builds the task: up to 3 retries on the
// "critical" queue, 30s per attempt.
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskOrderConfirmation,
		data,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}
