package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

type ReviewService interface {
	// Create enforces one review per author per title: a friendly
	// pre-check plus the storage unique constraint for the concurrent
	// race. Both surface as ErrDuplicateReview.
	Create(ctx context.Context, actor *entity.User, titleID uint, text string, score int) (*entity.Review, error)
	Get(ctx context.Context, titleID, reviewID uint) (*entity.Review, error)
	ListByTitle(ctx context.Context, titleID uint) ([]*entity.Review, error)
	Update(ctx context.Context, review *entity.Review, text *string, score *int) (*entity.Review, error)
	Delete(ctx context.Context, review *entity.Review) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository) ReviewService {
	return &reviewService{reviews: reviews, titles: titles}
}

func validScore(score int) bool {
	return score >= entity.MinScore && score <= entity.MaxScore
}

func (s *reviewService) getTitle(ctx context.Context, titleID uint) (*entity.Title, error) {
	title, err := s.titles.FindByID(ctx, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return title, nil
}

func (s *reviewService) Create(ctx context.Context, actor *entity.User, titleID uint, text string, score int) (*entity.Review, error) {
	title, err := s.getTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	if !validScore(score) {
		return nil, apperror.ErrScoreOutOfRange
	}

	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicateReview
	}

	review := &entity.Review{
		AuthorID: actor.ID,
		TitleID:  titleID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		// Lost the race against a concurrent duplicate; the unique
		// constraint is the authoritative check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrDuplicateReview
		}
		return nil, err
	}
	review.Author = *actor
	review.Title = *title
	return review, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID uint) (*entity.Review, error) {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID uint) ([]*entity.Review, error) {
	if _, err := s.getTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviews.FindAllByTitle(ctx, titleID)
}

func (s *reviewService) Update(ctx context.Context, review *entity.Review, text *string, score *int) (*entity.Review, error) {
	if score != nil {
		if !validScore(*score) {
			return nil, apperror.ErrScoreOutOfRange
		}
		review.Score = *score
	}
	if text != nil {
		review.Text = *text
	}

	// PubDate is immutable: Save keeps the creation timestamp.
	if err := s.reviews.Save(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, review *entity.Review) error {
	return s.reviews.Delete(ctx, review.ID)
}
