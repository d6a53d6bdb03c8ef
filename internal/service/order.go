package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/email"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/job"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// Notifier queues the customer notifications of an order.
type Notifier interface {
	EnqueueOrderConfirmation(ctx context.Context, payload job.OrderConfirmationPayload) error
}

type OrderService struct {
	orders    *repository.OrderRepository
	products  *repository.ProductRepository
	customers *repository.CustomerRepository
	notifier  Notifier
	logger    *zerolog.Logger

	// lockRows adds FOR UPDATE to the product reads of an order. SQLite has
	// no row locks and serializes writers instead.
	lockRows bool
}

// NewOrderService builds the service. notifier may be nil, in which case no
// confirmation is sent.
func NewOrderService(s *server.Server, repos *repository.Repositories, notifier Notifier) *OrderService {
	return &OrderService{
		orders:    repos.Orders,
		products:  repos.Products,
		customers: repos.Customers,
		notifier:  notifier,
		logger:    s.Logger,
		lockRows:  !s.DB.ConnectionString().IsSQLite(),
	}
}

func (s *OrderService) List(ctx context.Context, q database.Querier, query *model.ListOrdersQuery) (*model.ListResult[model.Order], error) {
	items, total, err := s.orders.List(ctx, q, *query)
	if err != nil {
		return nil, err
	}
	page := query.Page.Normalize()
	return &model.ListResult[model.Order]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *OrderService) Get(ctx context.Context, q database.Querier, id int64) (*model.Order, error) {
	o, err := s.orders.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create places an order as one unit of work: the customer must exist, every
// product must have enough stock, unit prices come from the catalogue, stock
// is decremented and the order with its items is inserted. Nothing is
// persisted unless all of it succeeds. The confirmation email is queued only
// after the commit.
func (s *OrderService) Create(ctx context.Context, uow UnitOfWork, payload *model.CreateOrderPayload) (*model.Order, error) {
	customer, err := s.customers.Get(ctx, uow, payload.CustomerID)
	if err != nil {
		return nil, err
	}

	order := model.Order{
		CustomerID:      customer.ID,
		Status:          model.OrderStatusPending,
		Total:           decimal.Zero,
		PaymentMethod:   payload.PaymentMethod,
		ShippingAddress: payload.ShippingAddress,
		Items:           make([]model.OrderItem, 0, len(payload.Items)),
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = model.PaymentMethodMpesa
	}
	if order.ShippingAddress == "" {
		order.ShippingAddress = customer.Address
	}

	for _, in := range payload.Items {
		product, err := s.products.GetForUpdate(ctx, uow, in.ProductID, s.lockRows)
		if err != nil {
			return nil, err
		}
		if product.Stock < in.Quantity {
			code := "PRODUCT_OUT_OF_STOCK"
			return nil, errs.NewConflictError(
				fmt.Sprintf("Only %d of %s left in stock", product.Stock, product.Name), true, &code)
		}
		if err := s.products.DecrementStock(ctx, uow, product.ID, in.Quantity); err != nil {
			return nil, err
		}

		item := model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			UnitPrice:   product.Price,
		}
		order.Items = append(order.Items, item)
		order.Total = order.Total.Add(item.Subtotal())
	}

	order, err = s.orders.Create(ctx, uow, order)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.notify(ctx, customer, order)

	return &order, nil
}

// notify queues the confirmation email. A queueing failure does not undo
// the committed order; it is only logged.
func (s *OrderService) notify(ctx context.Context, customer model.Customer, order model.Order) {
	if s.notifier == nil || customer.Email == "" {
		return
	}

	lines := make([]email.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, email.OrderLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}

	err := s.notifier.EnqueueOrderConfirmation(ctx, job.OrderConfirmationPayload{
		To:      customer.Email,
		OrderID: order.ID,
		Email: email.OrderConfirmation{
			CustomerName:  customer.Name,
			OrderID:       order.ID,
			Status:        order.Status,
			Total:         order.Total.StringFixed(2),
			PaymentMethod: order.PaymentMethod,
			Items:         lines,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("order_id", order.ID).Msg("failed to enqueue order confirmation")
	}
}

// UpdateStatus moves an order to a new status. Cancelling an order that
// still holds stock puts its items back; a cancelled order cannot be
// reopened.
func (s *OrderService) UpdateStatus(ctx context.Context, uow UnitOfWork, payload *model.UpdateOrderStatusPayload) (*model.Order, error) {
	order, err := s.orders.Get(ctx, uow, payload.ID)
	if err != nil {
		return nil, err
	}

	if order.Status == payload.Status {
		return &order, nil
	}
	if order.Status == model.OrderStatusCancelled {
		code := "ORDER_CANCELLED"
		return nil, errs.NewConflictError("A cancelled order cannot change status", true, &code)
	}

	if payload.Status == model.OrderStatusCancelled && model.HoldsStock(order.Status) {
		if err := s.orders.RestockItems(ctx, uow, order.ID); err != nil {
			return nil, err
		}
	}
	if err := s.orders.UpdateStatus(ctx, uow, order.ID, payload.Status); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	order, err = s.orders.Get(ctx, uow, order.ID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order, putting back the stock it still holds.
func (s *OrderService) Delete(ctx context.Context, uow UnitOfWork, id int64) error {
	order, err := s.orders.Get(ctx, uow, id)
	if err != nil {
		return err
	}

	if model.HoldsStock(order.Status) {
		if err := s.orders.RestockItems(ctx, uow, id); err != nil {
			return err
		}
	}
	if err := s.orders.Delete(ctx, uow, id); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
