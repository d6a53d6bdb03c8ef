package repository

import (
	"context"
	"errors"
	"net/http"
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
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/sqlerr"
)

// newSession opens a session on a fresh migrated SQLite database.
func newSession(t *testing.T) *database.Session {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Database: config.DatabaseConfig{
			URL:            "sqlite://" + filepath.Join(t.TempDir(), "fasthub.db"),
			MaxConns:       1,
			MaxIdleConns:   1,
			AcquireTimeout: time.Second,
			ReleaseTimeout: time.Second,
		},
	}

	db, err := database.New(context.Background(), cfg, &logger, nil, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &logger, db))

	s, err := db.Sessions.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr), "unexpected error %v", err)
	return httpErr.Status
}

func createProduct(t *testing.T, s *database.Session, name string, price string, stock int) model.Product {
	t.Helper()

	p, err := (&ProductRepository{}).Create(context.Background(), s, &model.CreateProductPayload{
		Name:     name,
		Category: "phones",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	})
	require.NoError(t, err)
	return p
}

func createCustomer(t *testing.T, s *database.Session, email string) model.Customer {
	t.Helper()

	c, err := (&CustomerRepository{}).Create(context.Background(), s, &model.CreateCustomerPayload{
		Name:  "Wanjiku",
		Email: email,
	})
	require.NoError(t, err)
	return c
}

func TestProductRepository(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	repo := &ProductRepository{}

	phone := createProduct(t, s, "Tecno Spark", "12999.50", 3)
	createProduct(t, s, "Charger", "850", 10)

	got, err := repo.Get(ctx, s, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tecno Spark", got.Name)
	assert.True(t, decimal.RequireFromString("12999.50").Equal(got.Price))

	items, total, err := repo.List(ctx, s, model.ListProductsQuery{Search: "SPARK"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, phone.ID, items[0].ID)

	items, total, err = repo.List(ctx, s, model.ListProductsQuery{Page: model.Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Charger", items[0].Name)

	require.NoError(t, repo.DecrementStock(ctx, s, phone.ID, 2))
	err = repo.DecrementStock(ctx, s, phone.ID, 2)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	got.Name = "Tecno Spark 20"
	updated, err := repo.Update(ctx, s, got)
	require.NoError(t, err)
	assert.Equal(t, "Tecno Spark 20", updated.Name)

	require.NoError(t, repo.Delete(ctx, s, phone.ID))
	_, err = repo.Get(ctx, s, phone.ID)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
	assert.Equal(t, http.StatusNotFound, httpStatus(t, repo.Delete(ctx, s, phone.ID)))
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	s := newSession(t)

	createCustomer(t, s, "Wanjiku@Example.com")

	_, err := (&CustomerRepository{}).Create(context.Background(), s, &model.CreateCustomerPayload{
		Name:  "Someone Else",
		Email: "wanjiku@example.com",
	})
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestOrderRepository_CreateGetRestock(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	orders := &OrderRepository{}
	products := &ProductRepository{}

	customer := createCustomer(t, s, "buyer@example.com")
	phone := createProduct(t, s, "Infinix Hot", "15000", 5)

	require.NoError(t, products.DecrementStock(ctx, s, phone.ID, 2))
	order, err := orders.Create(ctx, s, model.Order{
		CustomerID:    customer.ID,
		Status:        model.OrderStatusPending,
		Total:         decimal.RequireFromString("30000"),
		PaymentMethod: model.PaymentMethodMpesa,
		Items: []model.OrderItem{
			{ProductID: phone.ID, Quantity: 2, UnitPrice: phone.Price},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)

	got, err := orders.Get(ctx, s, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Infinix Hot", got.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("30000").Equal(got.Total))

	list, total, err := orders.List(ctx, s, model.ListOrdersQuery{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, orders.UpdateStatus(ctx, s, order.ID, model.OrderStatusCancelled))
	require.NoError(t, orders.RestockItems(ctx, s, order.ID))

	restocked, err := products.Get(ctx, s, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, restocked.Stock)

	// The customer still has an order, so it cannot go.
	err = (&CustomerRepository{}).Delete(ctx, s, customer.ID)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	// Neither can a product an order line points at.
	err = products.Delete(ctx, s, phone.ID)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))

	require.NoError(t, orders.Delete(ctx, s, order.ID))
	require.NoError(t, (&CustomerRepository{}).Delete(ctx, s, customer.ID))
}

func TestRepairRepository(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	repo := &RepairRepository{}

	rr, err := repo.Create(ctx, s, &model.CreateRepairPayload{
		CustomerName:     "Otieno",
		Phone:            "+254700000001",
		DeviceType:       "laptop",
		IssueDescription: "screen flickers",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RepairStatusPending, rr.Status)

	rr.Status = model.RepairStatusInProgress
	rr.EstimatedCost = decimal.RequireFromString("2500")
	_, err = repo.Update(ctx, s, rr)
	require.NoError(t, err)

	got, err := repo.Get(ctx, s, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RepairStatusInProgress, got.Status)
	assert.True(t, decimal.RequireFromString("2500").Equal(got.EstimatedCost))

	require.NoError(t, repo.Delete(ctx, s, rr.ID))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, repo.Delete(ctx, s, rr.ID), &httpErr)
	assert.Equal(t, "REPAIR_REQUEST_NOT_FOUND", httpErr.Code)
}

func TestSettingRepository_Upsert(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	repo := &SettingRepository{}

	_, err := repo.Upsert(ctx, s, "store_name", "FastHub")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, s, "store_name", "FastHub Kenya")
	require.NoError(t, err)

	got, err := repo.Get(ctx, s, "store_name")
	require.NoError(t, err)
	assert.Equal(t, "FastHub Kenya", got.Value)

	all, err := repo.List(ctx, s)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, s, "store_name"))
	_, err = repo.Get(ctx, s, "store_name")
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestAnalyticsRepository_Summary(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	orders := &OrderRepository{}

	customer := createCustomer(t, s, "stats@example.com")
	cheap := createProduct(t, s, "Cable", "200.25", 2)
	createProduct(t, s, "Laptop", "80000", 40)

	for _, status := range []string{model.OrderStatusPaid, model.OrderStatusPaid, model.OrderStatusCancelled} {
		_, err := orders.Create(ctx, s, model.Order{
			CustomerID:    customer.ID,
			Status:        status,
			Total:         decimal.RequireFromString("200.25"),
			PaymentMethod: model.PaymentMethodCash,
			Items:         []model.OrderItem{{ProductID: cheap.ID, Quantity: 1, UnitPrice: cheap.Price}},
		})
		require.NoError(t, err)
	}

	_, err := (&RepairRepository{}).Create(ctx, s, &model.CreateRepairPayload{
		CustomerName: "Achieng", Phone: "+254700000002", DeviceType: "phone", IssueDescription: "battery",
	})
	require.NoError(t, err)

	summary, err := (&AnalyticsRepository{}).Summary(ctx, s, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Products)
	assert.Equal(t, 1, summary.Customers)
	assert.Equal(t, 3, summary.Orders)
	assert.Equal(t, map[string]int{"paid": 2, "cancelled": 1}, summary.OrdersByStatus)
	assert.Equal(t, "400.5", summary.Revenue.String())
	assert.Equal(t, 1, summary.OpenRepairs)
	require.Len(t, summary.LowStockProducts, 1)
	assert.Equal(t, "Cable", summary.LowStockProducts[0].Name)
}
