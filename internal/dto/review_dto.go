package dto

import (
	"time"

	"reviewhub/internal/entity"
)

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReviewResponse renders the author as username and the title by name.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  *string   `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
	Title   string    `json:"title"`
}

func NewReviewResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  review.Author.Username,
		Score:   review.Score,
		PubDate: review.PubDate,
		Title:   review.Title.Name,
	}
}

func NewReviewResponses(reviews []*entity.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, NewReviewResponse(review))
	}
	return responses
}

type CommentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  *string   `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func NewCommentResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  comment.Author.Username,
		PubDate: comment.PubDate,
	}
}

func NewCommentResponses(comments []*entity.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, NewCommentResponse(comment))
	}
	return responses
}
