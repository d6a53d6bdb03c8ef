package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/job"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

type fakeNotifier struct {
	payloads []job.OrderConfirmationPayload
	err      error
}

func (f *fakeNotifier) EnqueueOrderConfirmation(_ context.Context, payload job.OrderConfirmationPayload) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Database: config.DatabaseConfig{
			URL:            "sqlite://" + filepath.Join(t.TempDir(), "service.db"),
			MaxConns:       2,
			MaxIdleConns:   2,
			AcquireTimeout: time.Second,
			ReleaseTimeout: time.Second,
		},
		Payment: config.PaymentConfig{Environment: config.PaymentEnvSandbox},
	}

	db, err := database.New(context.Background(), cfg, &logger, nil, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &logger, db))

	return &server.Server{Config: cfg, Logger: &logger, DB: db}
}

// withSession runs fn in a fresh session, like one API request.
func withSession(t *testing.T, s *server.Server, fn func(ctx context.Context, sess *database.Session)) {
	t.Helper()

	err := s.DB.Sessions.WithSession(context.Background(), func(ctx context.Context, sess *database.Session) error {
		fn(ctx, sess)
		return nil
	})
	require.NoError(t, err)
}

type fixture struct {
	customer  model.Customer
	phone     model.Product
	accessory model.Product
}

func seedFixture(t *testing.T, s *server.Server) fixture {
	t.Helper()

	var f fixture
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		var err error
		f.customer, err = (&repository.CustomerRepository{}).Create(ctx, sess, &model.CreateCustomerPayload{
			Name: "Njeri", Email: "njeri@example.com", Address: "Moi Avenue, Nairobi",
		})
		require.NoError(t, err)

		products := &repository.ProductRepository{}
		f.phone, err = products.Create(ctx, sess, &model.CreateProductPayload{
			Name: "Samsung A15", Price: decimal.RequireFromString("18999.99"), Stock: 4,
		})
		require.NoError(t, err)
		f.accessory, err = products.Create(ctx, sess, &model.CreateProductPayload{
			Name: "Phone Case", Price: decimal.RequireFromString("450"), Stock: 10,
		})
		require.NoError(t, err)

		require.NoError(t, sess.Commit(ctx))
	})
	return f
}

func stockOf(t *testing.T, s *server.Server, id int64) int {
	t.Helper()

	var stock int
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		p, err := (&repository.ProductRepository{}).Get(ctx, sess, id)
		require.NoError(t, err)
		stock = p.Stock
	})
	return stock
}

func TestOrderService_Create(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	notifier := &fakeNotifier{}
	svc := NewOrderService(s, repository.NewRepositories(), notifier)

	var order *model.Order
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		var err error
		order, err = svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: f.customer.ID,
			Items: []model.OrderItemInput{
				{ProductID: f.phone.ID, Quantity: 2},
				{ProductID: f.accessory.ID, Quantity: 3},
			},
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "39349.98", order.Total.StringFixed(2))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentMethodMpesa, order.PaymentMethod)
	assert.Equal(t, "Moi Avenue, Nairobi", order.ShippingAddress)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 2, stockOf(t, s, f.phone.ID))
	assert.Equal(t, 7, stockOf(t, s, f.accessory.ID))

	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, "njeri@example.com", notifier.payloads[0].To)
	assert.Equal(t, order.ID, notifier.payloads[0].Email.OrderID)
	assert.Equal(t, "39349.98", notifier.payloads[0].Email.Total)
}

func TestOrderService_CreateIsAllOrNothing(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	notifier := &fakeNotifier{}
	svc := NewOrderService(s, repository.NewRepositories(), notifier)

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		_, err := svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: f.customer.ID,
			Items: []model.OrderItemInput{
				{ProductID: f.accessory.ID, Quantity: 1},
				{ProductID: f.phone.ID, Quantity: 5},
			},
		})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 409, httpErr.Status)
		assert.Equal(t, "PRODUCT_OUT_OF_STOCK", httpErr.Code)
	})

	// The first item's decrement was never committed.
	assert.Equal(t, 10, stockOf(t, s, f.accessory.ID))
	assert.Equal(t, 4, stockOf(t, s, f.phone.ID))
	assert.Empty(t, notifier.payloads)
}

func TestOrderService_CreateUnknownCustomer(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	svc := NewOrderService(s, repository.NewRepositories(), nil)

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		_, err := svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: 999,
			Items:      []model.OrderItemInput{{ProductID: f.phone.ID, Quantity: 1}},
		})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", httpErr.Code)
	})
}

func TestOrderService_NotifierFailureKeepsOrder(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	svc := NewOrderService(s, repository.NewRepositories(), &fakeNotifier{err: errors.New("redis down")})

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		order, err := svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: f.customer.ID,
			Items:      []model.OrderItemInput{{ProductID: f.accessory.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.NotZero(t, order.ID)
	})

	assert.Equal(t, 9, stockOf(t, s, f.accessory.ID))
}

func TestOrderService_CancelRestocks(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	svc := NewOrderService(s, repository.NewRepositories(), nil)

	var orderID int64
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		order, err := svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: f.customer.ID,
			Items:      []model.OrderItemInput{{ProductID: f.phone.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		orderID = order.ID
	})
	assert.Equal(t, 1, stockOf(t, s, f.phone.ID))

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		order, err := svc.UpdateStatus(ctx, sess, &model.UpdateOrderStatusPayload{ID: orderID, Status: model.OrderStatusCancelled})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, order.Status)
	})
	assert.Equal(t, 4, stockOf(t, s, f.phone.ID))

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		_, err := svc.UpdateStatus(ctx, sess, &model.UpdateOrderStatusPayload{ID: orderID, Status: model.OrderStatusPaid})
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "ORDER_CANCELLED", httpErr.Code)
	})

	// Deleting a cancelled order does not restock twice.
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		require.NoError(t, svc.Delete(ctx, sess, orderID))
	})
	assert.Equal(t, 4, stockOf(t, s, f.phone.ID))
}

func TestOrderService_DeletePendingRestocks(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	svc := NewOrderService(s, repository.NewRepositories(), nil)

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		order, err := svc.Create(ctx, sess, &model.CreateOrderPayload{
			CustomerID: f.customer.ID,
			Items:      []model.OrderItemInput{{ProductID: f.accessory.ID, Quantity: 4}},
		})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, sess, order.ID))
	})

	assert.Equal(t, 10, stockOf(t, s, f.accessory.ID))
}

func TestProductService_UpdateCommits(t *testing.T) {
	s := newTestServer(t)
	f := seedFixture(t, s)
	svc := NewProductService(repository.NewRepositories())

	price := decimal.RequireFromString("17999")
	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		p, err := svc.Update(ctx, sess, &model.UpdateProductPayload{ID: f.phone.ID, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "Samsung A15", p.Name)
	})

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		p, err := svc.Get(ctx, sess, f.phone.ID)
		require.NoError(t, err)
		assert.True(t, price.Equal(p.Price))
	})
}

func TestAnalyticsService_DefaultThreshold(t *testing.T) {
	s := newTestServer(t)
	seedFixture(t, s)
	svc := NewAnalyticsService(repository.NewRepositories())

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		summary, err := svc.Summary(ctx, sess, &model.SummaryQuery{})
		require.NoError(t, err)
		require.Len(t, summary.LowStockProducts, 1)
		assert.Equal(t, "Samsung A15", summary.LowStockProducts[0].Name)
	})
}

func TestPaymentService_NeverExposesSecrets(t *testing.T) {
	svc := NewPaymentService(config.PaymentConfig{
		ConsumerKey:    "ck-123",
		ConsumerSecret: "cs-456",
		Shortcode:      "174379",
		Passkey:        "pk-789",
		Environment:    config.PaymentEnvProduction,
	})

	status := svc.MpesaStatus()
	assert.True(t, status.Configured)
	assert.Equal(t, config.MpesaProductionURL, status.BaseURL)
	assert.Equal(t, "174379", status.Shortcode)

	unconfigured := NewPaymentService(config.PaymentConfig{Environment: config.PaymentEnvSandbox}).MpesaStatus()
	assert.False(t, unconfigured.Configured)
	assert.Equal(t, config.MpesaSandboxURL, unconfigured.BaseURL)
	assert.Empty(t, unconfigured.Shortcode)
}

func TestProductService_ExportCSV(t *testing.T) {
	s := newTestServer(t)
	seedFixture(t, s)
	svc := NewProductService(repository.NewRepositories())

	withSession(t, s, func(ctx context.Context, sess *database.Session) {
		data, err := svc.ExportCSV(ctx, sess, &model.ListProductsQuery{Page: model.Page{Limit: 1}})
		require.NoError(t, err)
		assert.Equal(t,
			"id,name,category,price,stock\n"+
				"1,Samsung A15,,18999.99,4\n"+
				"2,Phone Case,,450.00,10\n",
			string(data))
	})
}
