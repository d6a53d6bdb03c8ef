package service

import (
	"context"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
)

type SettingService struct {
	repo *repository.SettingRepository
}

func NewSettingService(repos *repository.Repositories) *SettingService {
	return &SettingService{repo: repos.Settings}
}

func (s *SettingService) List(ctx context.Context, q database.Querier) ([]model.Setting, error) {
	return s.repo.List(ctx, q)
}

func (s *SettingService) Get(ctx context.Context, q database.Querier, key string) (*model.Setting, error) {
	setting, err := s.repo.Get(ctx, q, key)
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *SettingService) Upsert(ctx context.Context, uow UnitOfWork, payload *model.UpsertSettingPayload) (*model.Setting, error) {
	setting, err := s.repo.Upsert(ctx, uow, payload.Key, payload.Value)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *SettingService) Delete(ctx context.Context, uow UnitOfWork, key string) error {
	if err := s.repo.Delete(ctx, uow, key); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
