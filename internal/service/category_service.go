package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context) ([]models.ServiceCategory, error)
	FindByID(ctx context.Context, id string) (*models.ServiceCategory, error)
}

// CategoryService exposes the service category catalogue.
type CategoryService struct {
	repo   categoryRepository
	logger *zap.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(repo categoryRepository, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, logger: logger}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]models.ServiceCategory, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load categories")
	}
	return categories, nil
}

// Get fetches one category.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.ServiceCategory, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}
