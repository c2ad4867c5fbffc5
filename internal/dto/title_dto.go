package dto

import (
	"reviewhub/internal/entity"
	"reviewhub/internal/service"
)

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=200"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

type TitleFilterQuery struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type TitleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        *int             `json:"year"`
	Description string           `json:"description"`
	Genre       []entity.Genre   `json:"genre"`
	Category    *entity.Category `json:"category"`
	Rating      *float64         `json:"rating"`
}

func NewTitleResponse(rated *service.TitleWithRating) TitleResponse {
	title := rated.Title
	genres := title.Genres
	if genres == nil {
		genres = []entity.Genre{}
	}
	return TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Genre:       genres,
		Category:    title.Category,
		Rating:      rated.Rating,
	}
}

func NewTitleResponses(rated []*service.TitleWithRating) []TitleResponse {
	responses := make([]TitleResponse, 0, len(rated))
	for _, r := range rated {
		responses = append(responses, NewTitleResponse(r))
	}
	return responses
}
