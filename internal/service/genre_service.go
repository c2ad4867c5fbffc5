package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

type GenreService interface {
	Create(ctx context.Context, name, slug string) (*entity.Genre, error)
	List(ctx context.Context, search string) ([]*entity.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genres repository.GenreRepository
}

func NewGenreService(genres repository.GenreRepository) GenreService {
	return &genreService{genres: genres}
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*entity.Genre, error) {
	if !slugPattern.MatchString(slug) {
		return nil, apperror.ErrBadRequest
	}

	genre := &entity.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrBadRequest
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) List(ctx context.Context, search string) ([]*entity.Genre, error) {
	return s.genres.FindAll(ctx, search)
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	genre, err := s.genres.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.genres.Delete(ctx, genre.ID)
}
