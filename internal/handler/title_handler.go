package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
	"reviewhub/pkg/response"
	"reviewhub/pkg/validator"
)

type TitleHandler struct {
	titles service.TitleService
}

func NewTitleHandler(titles service.TitleService) *TitleHandler {
	return &TitleHandler{titles: titles}
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	title, err := h.titles.Create(c.Request.Context(), service.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTitleResponse(title))
}

func (h *TitleHandler) List(c *gin.Context) {
	var query dto.TitleFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	titles, err := h.titles.List(c.Request.Context(), repository.TitleFilter{
		Category: query.Category,
		Genre:    query.Genre,
		Name:     query.Name,
		Year:     query.Year,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTitleResponses(titles))
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	title, err := h.titles.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTitleResponse(title))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	title, err := h.titles.Update(c.Request.Context(), id, service.TitleUpdateInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTitleResponse(title))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "title_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.titles.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
