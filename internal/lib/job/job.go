// Package job runs background work on asynq, a Redis-backed task queue.
//
// The API enqueues tasks through JobService.Client once the data they
// describe is committed; the embedded asynq.Server executes them with
// retries, so a slow or failing email provider never holds a request (or a
// database session) open.
package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/email"
)

// Mailer is the email capability the task handlers need.
type Mailer interface {
	SendOrderConfirmationEmail(to string, data email.OrderConfirmation) error
}

// JobService holds the asynq client (enqueue) and server (execution).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	mailer Mailer
	logger *zerolog.Logger
}

// NewJobService creates a JobService on the Redis address from cfg.
//
// Queue weights give "critical" tasks six out of ten workers, "default"
// three and "low" one.
func NewJobService(logger *zerolog.Logger, cfg *config.Config, mailer Mailer) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ShutdownTimeout: 10 * time.Second,
		},
	)

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		mailer: mailer,
		logger: logger,
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOrderConfirmation, j.handleOrderConfirmationTask)
	return mux
}

// Start launches the worker pool in the background and returns.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.Mux())
}

// EnqueueOrderConfirmation schedules the confirmation email for a committed
// order.
func (j *JobService) EnqueueOrderConfirmation(ctx context.Context, payload OrderConfirmationPayload) error {
	task, err := NewOrderConfirmationTask(payload)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int64("order_id", payload.OrderID).
		Msg("enqueued order confirmation email")
	return nil
}

// Stop waits for running tasks (up to the shutdown timeout) and closes the
// client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("closing job client")
	}
}
