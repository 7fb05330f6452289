// Package services contains the application services of the Farmline client:
// catalog browsing, order placement with local-cart checkout, administrative
// user management and the farmer notification feed.
package services

import (
	"context"
	"strings"

	"github.com/mkalvans/farmline/internal/client/api"
	"github.com/mkalvans/farmline/internal/client/models"
)

// CatalogFilter narrows product listings. Zero value means no filtering.
// Filters are applied client-side; the backend list endpoint is unfiltered.
type CatalogFilter struct {
	CategoryID string
	FarmID     string
	Query      string
}

// CatalogService exposes the product, category and farm surfaces.
type CatalogService interface {
	ListProducts(ctx context.Context, filter CatalogFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, c models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListFarms(ctx context.Context) ([]models.Farm, error)
	GetFarm(ctx context.Context, id string) (*models.Farm, error)
	SaveFarm(ctx context.Context, f models.Farm) (*models.Farm, error)
}

type catalogService struct {
	api api.Client
}

// NewCatalogService constructs a CatalogService over the REST client.
func NewCatalogService(client api.Client) CatalogService {
	return &catalogService{api: client}
}

func (s *catalogService) ListProducts(ctx context.Context, filter CatalogFilter) ([]models.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if filter == (CatalogFilter{}) {
		return products, nil
	}

	// Filter into a fresh slice; the input may be retained by the client.
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var filtered []models.Product
	for _, p := range products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.FarmID != "" && p.FarmID != filter.FarmID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.api.GetProduct(ctx, id)
}

// SaveProduct creates the product when it has no ID yet, updates otherwise.
func (s *catalogService) SaveProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		return s.api.CreateProduct(ctx, p)
	}
	return s.api.UpdateProduct(ctx, p)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.api.DeleteProduct(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *catalogService) SaveCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	if c.ID == "" {
		return s.api.CreateCategory(ctx, c)
	}
	return s.api.UpdateCategory(ctx, c)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.api.DeleteCategory(ctx, id)
}

func (s *catalogService) ListFarms(ctx context.Context) ([]models.Farm, error) {
	return s.api.ListFarms(ctx)
}

func (s *catalogService) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	return s.api.GetFarm(ctx, id)
}

func (s *catalogService) SaveFarm(ctx context.Context, f models.Farm) (*models.Farm, error) {
	if f.ID == "" {
		return s.api.CreateFarm(ctx, f)
	}
	return s.api.UpdateFarm(ctx, f)
}
