package service

import (
	"context"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
)

// DefaultLowStockThreshold is the stock level at or below which a product
// is reported as running low.
const DefaultLowStockThreshold = 5

type AnalyticsService struct {
	repo *repository.AnalyticsRepository
}

func NewAnalyticsService(repos *repository.Repositories) *AnalyticsService {
	return &AnalyticsService{repo: repos.Analytics}
}

func (s *AnalyticsService) Summary(ctx context.Context, q database.Querier, query *model.SummaryQuery) (*model.Summary, error) {
	threshold := query.LowStock
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}

	summary, err := s.repo.Summary(ctx, q, threshold)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
