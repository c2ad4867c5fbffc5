package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, titleID, id uint) (*entity.Review, error)
	// FindAllByTitle returns reviews newest first; the ordering is part
	// of the API contract.
	FindAllByTitle(ctx context.Context, titleID uint) ([]*entity.Review, error)
	ExistsForAuthor(ctx context.Context, titleID uint, authorID uuid.UUID) (bool, error)
	Save(ctx context.Context, review *entity.Review) error
	// Delete removes the review together with its comments.
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, id uint) (*entity.Review, error) {
	var review entity.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Title").
		Where("title_id = ?", titleID).
		First(&review, "reviews.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindAllByTitle(ctx context.Context, titleID uint) ([]*entity.Review, error) {
	var reviews []*entity.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Title").
		Where("title_id = ?", titleID).
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID uint, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Save(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Omit("Author", "Title").Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.Comment{}, "review_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Review{}, "id = ?", id).Error
	})
}
