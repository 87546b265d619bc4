package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Title           string    `bun:",notnull" json:"title"`
	Author          string    `bun:",notnull" json:"author"`
	Description     *string   `json:"description"`
	ISBN            *string   `bun:"isbn" json:"isbn"`
	PublicationYear *int      `json:"publication_year"`
	Genre           *string   `json:"genre"`
	Pages           *int      `json:"pages"`
	CoverURL        *string   `bun:"cover_url" json:"cover_url"`
	// AverageRating is derived from ratings and only written by the rating
	// path, inside the same transaction as the rating itself.
	AverageRating float64 `bun:",notnull" json:"average_rating"`
}
