package service

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

// slugPattern matches URL-safe identifiers.
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	Create(ctx context.Context, name, slug string) (*entity.Category, error)
	List(ctx context.Context, search string) ([]*entity.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) Create(ctx context.Context, name, slug string) (*entity.Category, error) {
	if !slugPattern.MatchString(slug) {
		return nil, apperror.ErrBadRequest
	}

	category := &entity.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrBadRequest
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, search string) ([]*entity.Category, error) {
	return s.categories.FindAll(ctx, search)
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.categories.Delete(ctx, category.ID)
}
