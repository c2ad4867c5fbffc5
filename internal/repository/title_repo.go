package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"reviewhub/internal/entity"
)

// TitleFilter mirrors the list query parameters: slug filters for
// category and genre, substring match on name, exact year.
type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     *int
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title) error
	FindByID(ctx context.Context, id uint) (*entity.Title, error)
	FindAll(ctx context.Context, filter TitleFilter) ([]*entity.Title, error)
	Save(ctx context.Context, title *entity.Title) error
	Delete(ctx context.Context, id uint) error
	// AverageScore aggregates review scores for one title; Valid is
	// false when the title has no reviews.
	AverageScore(ctx context.Context, titleID uint) (sql.NullFloat64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *entity.Title) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *titleRepository) FindByID(ctx context.Context, id uint) (*entity.Title, error) {
	var title entity.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter) ([]*entity.Title, error) {
	query := r.db.WithContext(ctx).Model(&entity.Title{}).
		Preload("Category").
		Preload("Genres").
		Order("titles.id DESC")

	if filter.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Genre != "" {
		query = query.
			Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.Genre)
	}
	if filter.Name != "" {
		query = query.Where("titles.name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != nil {
		query = query.Where("titles.year = ?", *filter.Year)
	}

	var titles []*entity.Title
	if err := query.Find(&titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *titleRepository) Save(ctx context.Context, title *entity.Title) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres").Save(title).Error; err != nil {
			return err
		}
		return tx.Model(title).Association("Genres").Replace(title.Genres)
	})
}

func (r *titleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM comments WHERE review_id IN (SELECT id FROM reviews WHERE title_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Review{}, "title_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Title{}, "id = ?", id).Error
	})
}

func (r *titleRepository) AverageScore(ctx context.Context, titleID uint) (sql.NullFloat64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	return avg, err
}
