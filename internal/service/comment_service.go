package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

type CommentService interface {
	Create(ctx context.Context, actor *entity.User, titleID, reviewID uint, text string) (*entity.Comment, error)
	Get(ctx context.Context, reviewID, commentID uint) (*entity.Comment, error)
	ListByReview(ctx context.Context, titleID, reviewID uint) ([]*entity.Comment, error)
	Update(ctx context.Context, comment *entity.Comment, text string) (*entity.Comment, error)
	Delete(ctx context.Context, comment *entity.Comment) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository) CommentService {
	return &commentService{comments: comments, reviews: reviews}
}

func (s *commentService) requireReview(ctx context.Context, titleID, reviewID uint) error {
	if _, err := s.reviews.FindByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) Create(ctx context.Context, actor *entity.User, titleID, reviewID uint, text string) (*entity.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		AuthorID: actor.ID,
		ReviewID: reviewID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *actor
	return comment, nil
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID uint) (*entity.Comment, error) {
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID uint) ([]*entity.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.FindAllByReview(ctx, reviewID)
}

func (s *commentService) Update(ctx context.Context, comment *entity.Comment, text string) (*entity.Comment, error) {
	comment.Text = text
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, comment *entity.Comment) error {
	return s.comments.Delete(ctx, comment.ID)
}
