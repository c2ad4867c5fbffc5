package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/service"
	"reviewhub/pkg/response"
	"reviewhub/pkg/validator"
)

// CategoryHandler and GenreHandler share the create/list/delete-by-slug
// surface of the two taxonomy resources.

type CategoryHandler struct {
	categories service.CategoryService
}

func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type GenreHandler struct {
	genres service.GenreService
}

func NewGenreHandler(genres service.GenreService) *GenreHandler {
	return &GenreHandler{genres: genres}
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	genre, err := h.genres.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, genre)
}

func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.genres.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, genres)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genres.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
