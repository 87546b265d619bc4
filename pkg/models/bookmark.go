package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Bookmark is the join row between a user and a book. It has no lifecycle
// beyond existing or not.
type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks,alias:bm"`

	UserID  int       `bun:",pk" json:"user_id"`
	BookID  int       `bun:",pk" json:"book_id"`
	AddedAt time.Time `json:"added_at"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
}
