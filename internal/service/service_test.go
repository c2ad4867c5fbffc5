package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Genre{},
		&entity.Title{},
		&entity.Review{},
		&entity.Comment{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{Email: username + "@example.com"}
	user.SetRole(role)
	if username != "" {
		user.Username = &username
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTitle(t *testing.T, db *gorm.DB, name string) *entity.Title {
	t.Helper()

	title := &entity.Title{Name: name, Description: "a " + name}
	require.NoError(t, db.Create(title).Error)
	return title
}

func seedReview(t *testing.T, db *gorm.DB, author *entity.User, title *entity.Title, score int) *entity.Review {
	t.Helper()

	review := &entity.Review{AuthorID: author.ID, TitleID: title.ID, Text: "fine", Score: score}
	require.NoError(t, db.Create(review).Error)
	return review
}

// fakeMailer records deliveries; Send runs on a goroutine in the token
// service, so the channel is buffered and read with a timeout.
type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (f *fakeMailer) Send(subject, body string, recipients ...string) {
	f.sent <- body
}

var testCtx = context.Background()
