package service

import (
	"context"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
)

type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(repos *repository.Repositories) *CustomerService {
	return &CustomerService{repo: repos.Customers}
}

func (s *CustomerService) List(ctx context.Context, q database.Querier, query *model.ListCustomersQuery) (*model.ListResult[model.Customer], error) {
	items, total, err := s.repo.List(ctx, q, *query)
	if err != nil {
		return nil, err
	}
	page := query.Page.Normalize()
	return &model.ListResult[model.Customer]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *CustomerService) Get(ctx context.Context, q database.Querier, id int64) (*model.Customer, error) {
	c, err := s.repo.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) Create(ctx context.Context, uow UnitOfWork, payload *model.CreateCustomerPayload) (*model.Customer, error) {
	c, err := s.repo.Create(ctx, uow, payload)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) Update(ctx context.Context, uow UnitOfWork, payload *model.UpdateCustomerPayload) (*model.Customer, error) {
	c, err := s.repo.Get(ctx, uow, payload.ID)
	if err != nil {
		return nil, err
	}

	payload.Apply(&c)
	if c, err = s.repo.Update(ctx, uow, c); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CustomerService) Delete(ctx context.Context, uow UnitOfWork, id int64) error {
	if err := s.repo.Delete(ctx, uow, id); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
