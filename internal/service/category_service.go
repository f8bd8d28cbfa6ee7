package service

import (
	"context"
	"strings"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// CategoryService manages event categories.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create stores a new category.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	if err := checkLength("Name", name, minCategoryLen, maxCategoryLen); err != nil {
		return nil, err
	}

	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	if err := checkLength("Name", name, minCategoryLen, maxCategoryLen); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(name)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category by id.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// List returns categories, paged.
func (s *CategoryService) List(ctx context.Context, from, size int) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, size, pageOffset(from, size))
}

// GetByID returns one category.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}
