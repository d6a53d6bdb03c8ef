package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleOrderConfirmationTask sends the order confirmation email. A returned
// error makes asynq retry; a malformed payload is never retried.
func (j *JobService) handleOrderConfirmationTask(ctx context.Context, t *asynq.Task) error {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal order confirmation payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskOrderConfirmation).
		Int64("order_id", p.OrderID).
		Logger()

	log.Info().Msg("processing order confirmation email")

	if err := j.mailer.SendOrderConfirmationEmail(p.To, p.Email); err != nil {
		log.Error().Err(err).Msg("failed to send order confirmation email")
		return err
	}

	log.Info().Msg("sent order confirmation email")
	return nil
}
