package service

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

type TitleInput struct {
	Name        string
	Year        *int
	Description string
	Category    string   // category slug, optional
	Genres      []string // genre slugs
}

type TitleUpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// TitleWithRating pairs a title with its freshly computed rating. The
// rating never lives on the title row; it is recomputed on every read.
type TitleWithRating struct {
	Title  *entity.Title
	Rating *float64
}

type TitleService interface {
	Create(ctx context.Context, input TitleInput) (*TitleWithRating, error)
	Get(ctx context.Context, id uint) (*TitleWithRating, error)
	List(ctx context.Context, filter repository.TitleFilter) ([]*TitleWithRating, error)
	Update(ctx context.Context, id uint, input TitleUpdateInput) (*TitleWithRating, error)
	Delete(ctx context.Context, id uint) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
}

func NewTitleService(titles repository.TitleRepository, categories repository.CategoryRepository, genres repository.GenreRepository) TitleService {
	return &titleService{titles: titles, categories: categories, genres: genres}
}

func validateYear(year *int) error {
	if year != nil && *year > time.Now().Year() {
		return apperror.ErrBadRequest
	}
	return nil
}

// roundScore rounds half-up (away from zero) to 2 decimal places. The
// mode is pinned by tests; rounding happens here rather than in SQL so
// every engine agrees.
func roundScore(mean float64) float64 {
	return math.Round(mean*100) / 100
}

func (s *titleService) rate(ctx context.Context, title *entity.Title) (*TitleWithRating, error) {
	avg, err := s.titles.AverageScore(ctx, title.ID)
	if err != nil {
		return nil, err
	}

	rated := &TitleWithRating{Title: title}
	if avg.Valid {
		rating := roundScore(avg.Float64)
		rated.Rating = &rating
	}
	return rated, nil
}

func (s *titleService) resolveRefs(ctx context.Context, title *entity.Title, categorySlug string, genreSlugs []string) error {
	if categorySlug != "" {
		category, err := s.categories.FindBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrBadRequest
			}
			return err
		}
		title.CategoryID = &category.ID
		title.Category = category
	} else {
		title.CategoryID = nil
		title.Category = nil
	}

	genres, err := s.genres.FindBySlugs(ctx, genreSlugs)
	if err != nil {
		return err
	}
	if len(genres) != len(genreSlugs) {
		return apperror.ErrBadRequest
	}
	title.Genres = genres
	return nil
}

func (s *titleService) Create(ctx context.Context, input TitleInput) (*TitleWithRating, error) {
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	title := &entity.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}
	if err := s.resolveRefs(ctx, title, input.Category, input.Genres); err != nil {
		return nil, err
	}

	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	return &TitleWithRating{Title: title}, nil
}

func (s *titleService) Get(ctx context.Context, id uint) (*TitleWithRating, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return s.rate(ctx, title)
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter) ([]*TitleWithRating, error) {
	titles, err := s.titles.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	rated := make([]*TitleWithRating, 0, len(titles))
	for _, title := range titles {
		r, err := s.rate(ctx, title)
		if err != nil {
			return nil, err
		}
		rated = append(rated, r)
	}
	return rated, nil
}

func (s *titleService) Update(ctx context.Context, id uint, input TitleUpdateInput) (*TitleWithRating, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}

	categorySlug := ""
	if title.Category != nil {
		categorySlug = title.Category.Slug
	}
	if input.Category != nil {
		categorySlug = *input.Category
	}
	genreSlugs := make([]string, 0, len(title.Genres))
	for _, g := range title.Genres {
		genreSlugs = append(genreSlugs, g.Slug)
	}
	if input.Genres != nil {
		genreSlugs = *input.Genres
	}
	if err := s.resolveRefs(ctx, title, categorySlug, genreSlugs); err != nil {
		return nil, err
	}

	if err := s.titles.Save(ctx, title); err != nil {
		return nil, err
	}
	return s.rate(ctx, title)
}

func (s *titleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.titles.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.titles.Delete(ctx, id)
}
