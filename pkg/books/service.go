package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	ISBN *string
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	// Search matches title or author, case-insensitively.
	Search *string
	// Genre matches a substring of the genre, case-insensitively.
	Genre *string
}

type Service struct {
	db    *bun.DB
	locks *bookLocks
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:    db,
		locks: newBookLocks(),
	}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now()
	}
	book.AverageRating = 0

	if book.ISBN != nil {
		exists, err := svc.db.NewSelect().
			Model((*models.Book)(nil)).
			Where("isbn = ?", *book.ISBN).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("ISBN already exists")
		}
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("ISBN already exists")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		pattern := containsPattern(*opts.Search)
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("LOWER(b.title) LIKE ?", pattern).
				WhereOr("LOWER(b.author) LIKE ?", pattern)
		})
	}
	if opts.Genre != nil && *opts.Genre != "" {
		q = q.Where("LOWER(b.genre) LIKE ?", containsPattern(*opts.Genre))
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// ListGenres returns every distinct non-null genre, sorted.
func (svc *Service) ListGenres(ctx context.Context) ([]string, error) {
	genres := []string{}

	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		ColumnExpr("DISTINCT b.genre").
		Where("b.genre IS NOT NULL").
		Order("b.genre ASC").
		Scan(ctx, &genres)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return genres, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
