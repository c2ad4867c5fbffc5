package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/permission"
	"reviewhub/internal/service"
	"reviewhub/pkg/response"
	"reviewhub/pkg/validator"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Create(c *gin.Context) {
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

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), actor, titleID, req.Text, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	reviews, err := h.reviews.ListByTitle(c.Request.Context(), titleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponses(reviews))
}

func (h *ReviewHandler) Get(c *gin.Context) {
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

	review, err := h.reviews.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
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

	review, err := h.reviews.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := permission.Check(permission.ContentPolicy, permission.Request{
		Actor:    response.GetUser(c),
		Method:   c.Request.Method,
		Resource: review,
	}); err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.reviews.Update(c.Request.Context(), review, req.Text, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(updated))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
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

	review, err := h.reviews.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := permission.Check(permission.ContentPolicy, permission.Request{
		Actor:    response.GetUser(c),
		Method:   c.Request.Method,
		Resource: review,
	}); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), review); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
