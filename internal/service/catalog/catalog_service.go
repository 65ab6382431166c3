package catalog

import (
	"context"
	"fmt"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/repository"
)

type CatalogUseCase interface {
	List(ctx context.Context) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, input CreateResourceInput) (*domain.Resource, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetResources(ctx context.Context) ([]domain.Resource, error)
	SetResources(ctx context.Context, resources []domain.Resource) error
	InvalidateResources(ctx context.Context) error
}

type CreateResourceInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
}

type CatalogService struct {
	resources repository.ResourceRepository
	cache     Cache
}

func NewCatalogService(resources repository.ResourceRepository, cache Cache) *CatalogService {
	return &CatalogService{resources: resources, cache: cache}
}

// List reads through the cache: the catalog is read-mostly and every booking
// form needs it.
func (s *CatalogService) List(ctx context.Context) ([]domain.Resource, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetResources(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetResources(ctx, resources)
	}
	return resources, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, input CreateResourceInput) (*domain.Resource, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.HourlyRate < 0 {
		return nil, domain.ErrInvalidAmount
	}

	resource := &domain.Resource{
		Name:        input.Name,
		Description: input.Description,
		HourlyRate:  input.HourlyRate,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateResources(ctx)
	}
	return resource, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateResources(ctx)
	}
	return nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
