package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
)

type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repos *repository.Repositories) *ProductService {
	return &ProductService{repo: repos.Products}
}

func (s *ProductService) List(ctx context.Context, q database.Querier, query *model.ListProductsQuery) (*model.ListResult[model.Product], error) {
	items, total, err := s.repo.List(ctx, q, *query)
	if err != nil {
		return nil, err
	}
	page := query.Page.Normalize()
	return &model.ListResult[model.Product]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *ProductService) Get(ctx context.Context, q database.Querier, id int64) (*model.Product, error) {
	p, err := s.repo.Get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Create(ctx context.Context, uow UnitOfWork, payload *model.CreateProductPayload) (*model.Product, error) {
	p, err := s.repo.Create(ctx, uow, payload)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, uow UnitOfWork, payload *model.UpdateProductPayload) (*model.Product, error) {
	p, err := s.repo.Get(ctx, uow, payload.ID)
	if err != nil {
		return nil, err
	}

	payload.Apply(&p)
	if p, err = s.repo.Update(ctx, uow, p); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, uow UnitOfWork, id int64) error {
	if err := s.repo.Delete(ctx, uow, id); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// ExportCSV renders every product matching query's filters as CSV,
// ignoring its pagination.
func (s *ProductService) ExportCSV(ctx context.Context, q database.Querier, query *model.ListProductsQuery) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "category", "price", "stock"}); err != nil {
		return nil, err
	}

	filter := *query
	filter.Page = model.Page{Limit: model.MaxPageLimit}
	for {
		items, total, err := s.repo.List(ctx, q, filter)
		if err != nil {
			return nil, err
		}
		for _, p := range items {
			record := []string{
				strconv.FormatInt(p.ID, 10),
				p.Name,
				p.Category,
				p.Price.StringFixed(2),
				strconv.Itoa(p.Stock),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}

		filter.Page.Offset += len(items)
		if len(items) == 0 || filter.Page.Offset >= total {
			break
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
