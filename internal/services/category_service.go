package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// CategoryService exposes the fixed category catalog.
type CategoryService struct {
	categories CategoryStore
	logger     *log.Logger
}

func NewCategoryService(categories CategoryStore, logger *log.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger.WithComponent(log.ComponentStorage),
	}
}

// EnsureSeeded inserts any catalog categories that are not in storage yet.
// Safe to call on every startup.
func (s *CategoryService) EnsureSeeded(ctx context.Context) error {
	inserted, err := s.categories.SeedCategories(ctx, core.Catalog)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if inserted > 0 {
		s.logger.InfoContext(ctx, "Seeded categories", "inserted", inserted)
	}
	return nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (core.Category, error) {
	return s.categories.GetCategoryByID(ctx, id)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (core.Category, error) {
	return s.categories.GetCategoryByName(ctx, name)
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.categories.ListCategories(ctx)
}
