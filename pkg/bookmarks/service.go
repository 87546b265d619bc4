package bookmarks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Add bookmarks the book for the user. Adding an existing bookmark is a
// no-op and keeps the original added_at.
func (svc *Service) Add(ctx context.Context, userID, bookID int) error {
	bookmark := &models.Bookmark{
		UserID:  userID,
		BookID:  bookID,
		AddedAt: time.Now(),
	}
	_, err := svc.db.
		NewInsert().
		Model(bookmark).
		On("CONFLICT (user_id, book_id) DO NOTHING").
		Exec(ctx)
	return errors.WithStack(err)
}

// Remove deletes the bookmark if it exists.
func (svc *Service) Remove(ctx context.Context, userID, bookID int) error {
	_, err := svc.db.
		NewDelete().
		Model((*models.Bookmark)(nil)).
		Where("user_id = ?", userID).
		Where("book_id = ?", bookID).
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) Contains(ctx context.Context, userID, bookID int) (bool, error) {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Bookmark)(nil)).
		Where("bm.user_id = ?", userID).
		Where("bm.book_id = ?", bookID).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// ListBooks returns the user's bookmarks with their books, most recent first.
func (svc *Service) ListBooks(ctx context.Context, userID int) ([]*models.Bookmark, error) {
	bookmarks := []*models.Bookmark{}
	err := svc.db.
		NewSelect().
		Model(&bookmarks).
		Relation("Book").
		Where("bm.user_id = ?", userID).
		Order("bm.added_at DESC", "bm.book_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return bookmarks, nil
}

func (svc *Service) Count(ctx context.Context, userID int) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.Bookmark)(nil)).
		Where("bm.user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}
