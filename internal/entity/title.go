package entity

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
}

type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Year        *int      `json:"year"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  *uint     `json:"-"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genre"`
}
