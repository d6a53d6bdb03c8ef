package service

import (
	"context"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/job"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// UnitOfWork is the request's database session as the services see it:
// statements plus an explicit commit. *database.Session satisfies it.
type UnitOfWork interface {
	database.Querier
	Commit(ctx context.Context) error
}

type Services struct {
	Products  *ProductService
	Customers *CustomerService
	Orders    *OrderService
	Repairs   *RepairService
	Settings  *SettingService
	Analytics *AnalyticsService
	Payments  *PaymentService
	Job       *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *job.JobService must not become a non-nil Notifier.
	var notifier Notifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Products:  NewProductService(repos),
		Customers: NewCustomerService(repos),
		Orders:    NewOrderService(s, repos, notifier),
		Repairs:   NewRepairService(repos),
		Settings:  NewSettingService(repos),
		Analytics: NewAnalyticsService(repos),
		Payments:  NewPaymentService(s.Config.Payment),
		Job:       s.Job,
	}, nil
}
