package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"addressbook/internal/domain"
	"addressbook/internal/repository"

	"go.uber.org/zap"
)

// CategoryService category use cases, scoped like ContactService.
type CategoryService interface {
	ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error)
	GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error)
	GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error)
	CreateCategory(ctx context.Context, appUserID string, input CategoryInput) (string, error)
	UpdateCategory(ctx context.Context, appUserID, categoryID string, input CategoryInput) error
	DeleteCategory(ctx context.Context, appUserID, categoryID string) error
}

type categoryService struct {
	categoriesRepo repository.CategoriesRepository
	logger         *zap.Logger
}

// NewCategoryService creates the CategoryService.
func NewCategoryService(categoriesRepo repository.CategoriesRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoriesRepo: categoriesRepo,
		logger:         logger,
	}
}

// CategoryInput allow-listed editable fields.
type CategoryInput struct {
	Name string `json:"name"`
}

func (in *CategoryInput) validate() *ValidationError {
	ve := newValidationError()
	if strings.TrimSpace(in.Name) == "" {
		ve.Fields["name"] = "name is required"
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context, appUserID string) ([]*domain.Category, error) {
	if appUserID == "" {
		return nil, fmt.Errorf("app_user_id is required")
	}
	return s.categoriesRepo.ListCategories(ctx, appUserID)
}

func (s *categoryService) GetCategory(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	return s.categoriesRepo.GetCategory(ctx, appUserID, categoryID)
}

// GetCategoryWithContacts category plus its member contacts, ordered by
// (last_name, first_name).
func (s *categoryService) GetCategoryWithContacts(ctx context.Context, appUserID, categoryID string) (*domain.Category, error) {
	return s.categoriesRepo.GetCategoryWithContacts(ctx, appUserID, categoryID)
}

func (s *categoryService) CreateCategory(ctx context.Context, appUserID string, input CategoryInput) (string, error) {
	if appUserID == "" {
		return "", fmt.Errorf("app_user_id is required")
	}
	if verr := input.validate(); verr != nil {
		return "", verr
	}

	category := &domain.Category{
		AppUserID:    appUserID,
		CategoryName: strings.TrimSpace(input.Name),
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.categoriesRepo.CreateCategory(ctx, category)
	if err != nil {
		return "", err
	}

	s.logger.Info("Category created",
		zap.String("app_user_id", appUserID),
		zap.String("category_id", id),
	)
	return id, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, appUserID, categoryID string, input CategoryInput) error {
	if verr := input.validate(); verr != nil {
		return verr
	}

	category := &domain.Category{
		CategoryID:   categoryID,
		AppUserID:    appUserID,
		CategoryName: strings.TrimSpace(input.Name),
	}
	if err := s.categoriesRepo.UpdateCategory(ctx, category); err != nil {
		return err
	}

	s.logger.Info("Category updated",
		zap.String("app_user_id", appUserID),
		zap.String("category_id", categoryID),
	)
	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, appUserID, categoryID string) error {
	if err := s.categoriesRepo.DeleteCategory(ctx, appUserID, categoryID); err != nil {
		return err
	}
	s.logger.Info("Category deleted",
		zap.String("app_user_id", appUserID),
		zap.String("category_id", categoryID),
	)
	return nil
}
