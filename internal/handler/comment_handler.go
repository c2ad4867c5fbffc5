package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/entity"
	"reviewhub/internal/permission"
	"reviewhub/internal/service"
	"reviewhub/pkg/response"
	"reviewhub/pkg/validator"
)

type CommentHandler struct {
	comments service.CommentService
}

func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Create(c *gin.Context) {
	actor, err := response.RequireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	titleID, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviewID, err := uintParam(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), actor, titleID, reviewID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCommentResponse(comment))
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviewID, err := uintParam(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	comments, err := h.comments.ListByReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCommentResponses(comments))
}

// loadAuthorized fetches the comment and replays the content policy
// with the object attached.
func (h *CommentHandler) loadAuthorized(c *gin.Context) (*entity.Comment, bool) {
	reviewID, err := uintParam(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	commentID, err := uintParam(c, "comment_id")
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	comment, err := h.comments.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	if err := permission.Check(permission.ContentPolicy, permission.Request{
		Actor:    response.GetUser(c),
		Method:   c.Request.Method,
		Resource: comment,
	}); err != nil {
		response.Error(c, err)
		return nil, false
	}

	return comment, true
}

func (h *CommentHandler) Get(c *gin.Context) {
	reviewID, err := uintParam(c, "review_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	commentID, err := uintParam(c, "comment_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	comment, err := h.comments.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCommentResponse(comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.comments.Update(c.Request.Context(), comment, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCommentResponse(updated))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.loadAuthorized(c)
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), comment); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
