package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is unique per (user_id, book_id).
type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:r"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `bun:",notnull" json:"user_id"`
	BookID    int       `bun:",notnull" json:"book_id"`
	Rating    int       `bun:",notnull" json:"rating"`
}

// ValidRating reports whether score is within [MinRating, MaxRating].
func ValidRating(score int) bool {
	return score >= MinRating && score <= MaxRating
}
