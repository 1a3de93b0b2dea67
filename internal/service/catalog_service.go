package service

import (
	"context"
	"fmt"

	"souq-kart/internal/model"
	"souq-kart/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// List returns the catalogue with current flash-sale data.
func (s *catalogService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetProductsWithFlashSales(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products")
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// Get returns a single product, or nil when it does not exist.
func (s *catalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	products, err := s.productRepo.GetByIDs(ctx, []string{id})
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to load product")
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}
