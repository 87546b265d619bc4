package books

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// ErrInvalidScore is returned by Rate for scores outside
// [models.MinRating, models.MaxRating].
var ErrInvalidScore = errcodes.BadRequest("Rating must be between 1 and 5")

// bookLocks hands out one mutex per book id. Entries are dropped once nobody
// holds or waits on them.
type bookLocks struct {
	mu    sync.Mutex
	locks map[int]*bookLock
}

type bookLock struct {
	mu   sync.Mutex
	refs int
}

func newBookLocks() *bookLocks {
	return &bookLocks{locks: map[int]*bookLock{}}
}

// lock blocks until the book's mutex is held and returns the func that
// releases it.
func (l *bookLocks) lock(bookID int) func() {
	l.mu.Lock()
	bl, ok := l.locks[bookID]
	if !ok {
		bl = &bookLock{}
		l.locks[bookID] = bl
	}
	bl.refs++
	l.mu.Unlock()

	bl.mu.Lock()

	return func() {
		bl.mu.Unlock()

		l.mu.Lock()
		bl.refs--
		if bl.refs == 0 {
			delete(l.locks, bookID)
		}
		l.mu.Unlock()
	}
}

func (l *bookLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Rate creates or updates the user's rating of the book and recomputes the
// book's average rating in the same transaction.
func (svc *Service) Rate(ctx context.Context, userID, bookID, score int) (*models.Rating, error) {
	if _, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &bookID}); err != nil {
		return nil, err
	}
	if !models.ValidRating(score) {
		return nil, ErrInvalidScore
	}

	unlock := svc.locks.lock(bookID)
	defer unlock()

	var rating *models.Rating
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Write before reading so the transaction holds SQLite's write lock
		// for the whole read-modify-write.
		res, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("average_rating = average_rating").
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}

		rating, err = upsertRating(ctx, tx, userID, bookID, score)
		if err != nil {
			return err
		}

		return recomputeAverage(ctx, tx, bookID)
	})
	if err != nil {
		return nil, err
	}

	return rating, nil
}

func upsertRating(ctx context.Context, tx bun.Tx, userID, bookID, score int) (*models.Rating, error) {
	rating := &models.Rating{}
	err := tx.NewSelect().
		Model(rating).
		Where("r.user_id = ?", userID).
		Where("r.book_id = ?", bookID).
		Scan(ctx)
	if err == nil {
		rating.Rating = score
		_, err = tx.NewUpdate().
			Model(rating).
			Column("rating").
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return rating, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	rating = &models.Rating{
		CreatedAt: time.Now(),
		UserID:    userID,
		BookID:    bookID,
		Rating:    score,
	}
	_, err = tx.NewInsert().
		Model(rating).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rating, nil
}

func recomputeAverage(ctx context.Context, tx bun.Tx, bookID int) error {
	var avg sql.NullFloat64
	err := tx.NewSelect().
		Model((*models.Rating)(nil)).
		ColumnExpr("AVG(r.rating)").
		Where("r.book_id = ?", bookID).
		Scan(ctx, &avg)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = tx.NewUpdate().
		Model((*models.Book)(nil)).
		Set("average_rating = ?", avg.Float64).
		Where("id = ?", bookID).
		Exec(ctx)
	return errors.WithStack(err)
}

// UserRating returns the user's score for the book, or nil if they haven't
// rated it.
func (svc *Service) UserRating(ctx context.Context, userID, bookID int) (*int, error) {
	rating := &models.Rating{}
	err := svc.db.NewSelect().
		Model(rating).
		Where("r.user_id = ?", userID).
		Where("r.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	return &rating.Rating, nil
}
