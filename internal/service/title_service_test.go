package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

func buildTitleService(t *testing.T) (TitleService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewTitleService(
		repository.NewTitleRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewGenreRepository(db),
	)
	return svc, db
}

func TestComputeRatingMeanOfScores(t *testing.T) {
	svc, db := buildTitleService(t)

	title := seedTitle(t, db, "Dune")
	for i, score := range []int{8, 9, 10} {
		author := seedUser(t, db, fmt.Sprintf("fan%d", i), entity.RoleUser)
		seedReview(t, db, author, title, score)
	}

	rated, err := svc.Get(testCtx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	require.Equal(t, 9.0, *rated.Rating)
}

func TestComputeRatingAbsentWithoutReviews(t *testing.T) {
	svc, db := buildTitleService(t)

	title := seedTitle(t, db, "Solaris")

	rated, err := svc.Get(testCtx, title.ID)
	require.NoError(t, err)
	require.Nil(t, rated.Rating, "no reviews must yield absent, not zero")
}

// A mean of 1.125 rounds to 1.13, not the banker's 1.12.
func TestComputeRatingRoundsHalfUp(t *testing.T) {
	svc, db := buildTitleService(t)

	title := seedTitle(t, db, "Stalker")
	scores := []int{1, 1, 1, 1, 1, 1, 1, 2} // mean 9/8 = 1.125
	for i, score := range scores {
		author := seedUser(t, db, fmt.Sprintf("viewer%d", i), entity.RoleUser)
		seedReview(t, db, author, title, score)
	}

	rated, err := svc.Get(testCtx, title.ID)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	require.Equal(t, 1.13, *rated.Rating)
}

func TestCreateTitleRejectsFutureYear(t *testing.T) {
	svc, _ := buildTitleService(t)

	next := time.Now().Year() + 1
	_, err := svc.Create(testCtx, TitleInput{Name: "From the Future", Year: &next})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestTitleCategoryNulledOnCategoryDelete(t *testing.T) {
	svc, db := buildTitleService(t)
	categories := NewCategoryService(repository.NewCategoryRepository(db))

	_, err := categories.Create(testCtx, "Movies", "movies")
	require.NoError(t, err)

	created, err := svc.Create(testCtx, TitleInput{Name: "Alien", Category: "movies"})
	require.NoError(t, err)
	require.NotNil(t, created.Title.Category)

	require.NoError(t, categories.Delete(testCtx, "movies"))

	rated, err := svc.Get(testCtx, created.Title.ID)
	require.NoError(t, err)
	require.Nil(t, rated.Title.Category, "deleting a category must orphan its titles, not remove them")
}

func TestTitleGenresResolvedBySlug(t *testing.T) {
	svc, db := buildTitleService(t)
	genres := NewGenreService(repository.NewGenreRepository(db))

	_, err := genres.Create(testCtx, "Science Fiction", "sci-fi")
	require.NoError(t, err)

	created, err := svc.Create(testCtx, TitleInput{Name: "Arrival", Genres: []string{"sci-fi"}})
	require.NoError(t, err)
	require.Len(t, created.Title.Genres, 1)

	_, err = svc.Create(testCtx, TitleInput{Name: "Ghost", Genres: []string{"missing"}})
	require.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestUpdateTitleKeepsUnmentionedFields(t *testing.T) {
	svc, db := buildTitleService(t)
	genres := NewGenreService(repository.NewGenreRepository(db))

	_, err := genres.Create(testCtx, "Drama", "drama")
	require.NoError(t, err)

	year := 1979
	created, err := svc.Create(testCtx, TitleInput{Name: "Stalker", Year: &year, Genres: []string{"drama"}})
	require.NoError(t, err)

	desc := "zone expedition"
	updated, err := svc.Update(testCtx, created.Title.ID, TitleUpdateInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Stalker", updated.Title.Name)
	require.Equal(t, 1979, *updated.Title.Year)
	require.Len(t, updated.Title.Genres, 1)
	require.Equal(t, "zone expedition", updated.Title.Description)
}
