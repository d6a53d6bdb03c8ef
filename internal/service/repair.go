package service

import (
	"context"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
)

type RepairService struct {
	repo *repository.RepairRepository
}

func NewRepairService(repos *repository.Repositories) *RepairService {
	return &RepairService{repo: repos.Repairs}
}

func (s *RepairService) List(ctx context.Context, q database.Querier, query *model.ListRepairsQuery) (*model.ListResult[model.RepairRequest], error) {
	items, total, err := s.repo.List(ctx, q, *query)
	if err != nil {
		return nil, err
	}
	page := query.Page.Normalize()
	return &model.ListResult[model.RepairRequest]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *RepairService) Get(ctx context.Context, q database.Querier, id int64) (*model.RepairRequest, error) {
	rr, err := s.repo.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s *RepairService) Create(ctx context.Context, uow UnitOfWork, payload *model.CreateRepairPayload) (*model.RepairRequest, error) {
	rr, err := s.repo.Create(ctx, uow, payload)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s *RepairService) Update(ctx context.Context, uow UnitOfWork, payload *model.UpdateRepairPayload) (*model.RepairRequest, error) {
	rr, err := s.repo.Get(ctx, uow, payload.ID)
	if err != nil {
		return nil, err
	}

	payload.Apply(&rr)
	if rr, err = s.repo.Update(ctx, uow, rr); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s *RepairService) Delete(ctx context.Context, uow UnitOfWork, id int64) error {
	if err := s.repo.Delete(ctx, uow, id); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
