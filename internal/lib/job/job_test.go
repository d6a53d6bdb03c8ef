package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/email"
)

type fakeMailer struct {
	to   string
	data email.OrderConfirmation
	err  error
}

func (f *fakeMailer) SendOrderConfirmationEmail(to string, data email.OrderConfirmation) error {
	f.to = to
	f.data = data
	return f.err
}

func newTestJobService(mailer Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: mailer, logger: &logger}
}

func TestNewOrderConfirmationTask(t *testing.T) {
	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{To: "jane@example.com", OrderID: 12})
	require.NoError(t, err)
	assert.Equal(t, TaskOrderConfirmation, task.Type())

	var payload OrderConfirmationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, int64(12), payload.OrderID)
	assert.Equal(t, "jane@example.com", payload.To)
}

func TestHandleOrderConfirmationTask(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestJobService(mailer)

	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{
		To:      "jane@example.com",
		OrderID: 12,
		Email:   email.OrderConfirmation{CustomerName: "Jane", OrderID: 12, Total: "950.00"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Mux().ProcessTask(context.Background(), task))
	assert.Equal(t, "jane@example.com", mailer.to)
	assert.Equal(t, "950.00", mailer.data.Total)
}

func TestHandleOrderConfirmationTask_Errors(t *testing.T) {
	providerErr := errors.New("provider unavailable")
	svc := newTestJobService(&fakeMailer{err: providerErr})

	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{To: "jane@example.com", OrderID: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.handleOrderConfirmationTask(context.Background(), task), providerErr)

	bad := asynq.NewTask(TaskOrderConfirmation, []byte("{not json"))
	assert.ErrorIs(t, svc.handleOrderConfirmationTask(context.Background(), bad), asynq.SkipRetry)
}
