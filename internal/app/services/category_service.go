package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/search"
)

// CategoryService exposes the category reference data
type CategoryService interface {
	ListCategories(ctx context.Context, req *dto.CategoryFilterRequest) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	// SeedDefaults inserts the default categories that do not exist yet and returns how many were added
	SeedDefaults(ctx context.Context, defaults []*models.Category) (int, error)
}

type categoryServiceImpl struct {
	categories CategoryStore
	logger     zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories CategoryStore, logger zerolog.Logger) CategoryService {
	return &categoryServiceImpl{categories: categories, logger: logger}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, req *dto.CategoryFilterRequest) ([]*models.Category, error) {
	style := models.TravelStyle(req.TravelStyle)
	if style != "" && !style.IsValid() {
		return nil, apperrors.InvalidField("travelStyle", "unknown travel style %q", req.TravelStyle)
	}
	if req.Context != "" && !search.IsContextTag(req.Context) {
		return nil, apperrors.InvalidField("context", "context must be one of solo, couple, family, friends")
	}

	categories, err := s.categories.List(ctx, style, req.Context)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *categoryServiceImpl) SeedDefaults(ctx context.Context, defaults []*models.Category) (int, error) {
	added := 0
	for _, c := range defaults {
		created, err := s.categories.CreateIfNotExists(ctx, c)
		if err != nil {
			return added, fmt.Errorf("error seeding category %s: %w", c.Name, err)
		}
		if created {
			added++
		}
	}

	s.logger.Info().Int("added", added).Int("total", len(defaults)).Msg("Default categories seeded")
	return added, nil
}
