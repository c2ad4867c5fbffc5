package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

func buildReviewService(t *testing.T) (ReviewService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewReviewService(repository.NewReviewRepository(db), repository.NewTitleRepository(db))
	return svc, db
}

func TestCreateReviewRejectsSecondFromSameAuthor(t *testing.T) {
	svc, db := buildReviewService(t)

	author := seedUser(t, db, "critic", entity.RoleUser)
	title := seedTitle(t, db, "Dune")

	_, err := svc.Create(testCtx, author, title.ID, "great", 8)
	require.NoError(t, err)

	_, err = svc.Create(testCtx, author, title.ID, "changed my mind", 3)
	require.ErrorIs(t, err, apperror.ErrDuplicateReview)

	// A different title is fine.
	other := seedTitle(t, db, "Solaris")
	_, err = svc.Create(testCtx, author, other.ID, "also great", 9)
	require.NoError(t, err)
}

// The unique index is the backstop when two requests race past the
// pre-check; a raw duplicate insert must fail at the storage layer.
func TestDuplicateReviewConstraintBackstop(t *testing.T) {
	_, db := buildReviewService(t)

	author := seedUser(t, db, "critic", entity.RoleUser)
	title := seedTitle(t, db, "Dune")
	seedReview(t, db, author, title, 8)

	dup := &entity.Review{AuthorID: author.ID, TitleID: title.ID, Text: "again", Score: 5}
	err := db.Create(dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateReviewScoreBounds(t *testing.T) {
	svc, db := buildReviewService(t)

	author := seedUser(t, db, "critic", entity.RoleUser)
	title := seedTitle(t, db, "Dune")

	for _, score := range []int{0, 11, -1} {
		_, err := svc.Create(testCtx, author, title.ID, "off the scale", score)
		require.ErrorIs(t, err, apperror.ErrScoreOutOfRange)
	}
	for _, score := range []int{1, 10} {
		title := seedTitle(t, db, "another")
		_, err := svc.Create(testCtx, author, title.ID, "edge", score)
		require.NoError(t, err)
	}
}

func TestCreateReviewUnknownTitle(t *testing.T) {
	svc, db := buildReviewService(t)

	author := seedUser(t, db, "critic", entity.RoleUser)
	_, err := svc.Create(testCtx, author, 999, "ghost", 5)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListReviewsNewestFirst(t *testing.T) {
	svc, db := buildReviewService(t)

	title := seedTitle(t, db, "Dune")
	first := seedUser(t, db, "early", entity.RoleUser)
	second := seedUser(t, db, "late", entity.RoleUser)
	seedReview(t, db, first, title, 7)
	seedReview(t, db, second, title, 9)

	reviews, err := svc.ListByTitle(testCtx, title.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, second.ID, reviews[0].AuthorID)
	require.Equal(t, first.ID, reviews[1].AuthorID)
}

func TestUpdateReviewKeepsPubDate(t *testing.T) {
	svc, db := buildReviewService(t)

	author := seedUser(t, db, "critic", entity.RoleUser)
	title := seedTitle(t, db, "Dune")
	review := seedReview(t, db, author, title, 7)
	created := review.PubDate

	newText := "on reflection"
	newScore := 9
	updated, err := svc.Update(testCtx, review, &newText, &newScore)
	require.NoError(t, err)
	require.Equal(t, "on reflection", updated.Text)
	require.Equal(t, 9, updated.Score)
	require.Equal(t, created.Unix(), updated.PubDate.Unix())

	bad := 42
	_, err = svc.Update(testCtx, review, nil, &bad)
	require.ErrorIs(t, err, apperror.ErrScoreOutOfRange)
}

func TestDeleteReviewRemovesComments(t *testing.T) {
	svc, db := buildReviewService(t)
	comments := NewCommentService(repository.NewCommentRepository(db), repository.NewReviewRepository(db))

	author := seedUser(t, db, "critic", entity.RoleUser)
	title := seedTitle(t, db, "Dune")
	review := seedReview(t, db, author, title, 7)

	_, err := comments.Create(testCtx, author, title.ID, review.ID, "agreed")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(testCtx, review))

	var count int64
	require.NoError(t, db.Model(&entity.Comment{}).Where("review_id = ?", review.ID).Count(&count).Error)
	require.Zero(t, count)
}
