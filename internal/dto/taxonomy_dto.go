package dto

// CreateTaxonomyRequest covers category and genre creation: a display
// name plus a URL-safe slug.
type CreateTaxonomyRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type TaxonomySearchQuery struct {
	Search string `form:"search"`
}
