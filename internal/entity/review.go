package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 1
	MaxScore = 10
)

// Review holds one user's opinion of one title. The composite unique
// index is the storage-level guarantee behind the one-review-per-author
// rule; services additionally pre-check for a friendlier error.
type Review struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	Title    Title     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Score    int       `gorm:"not null;check:reviews_score_range,score >= 1 AND score <= 10" json:"score"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`
}

// OwnerID identifies the review's author for permission checks.
func (r *Review) OwnerID() uuid.UUID {
	return r.AuthorID
}

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	Author   User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReviewID uint      `gorm:"not null" json:"-"`
	Review   Review    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`
}

// OwnerID identifies the comment's author for permission checks.
func (c *Comment) OwnerID() uuid.UUID {
	return c.AuthorID
}
