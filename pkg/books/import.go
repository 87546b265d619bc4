package books

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
)

type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ImportBooks creates each book in order, skipping rows without a title or
// author and rows whose ISBN is already in the catalog.
func (svc *Service) ImportBooks(ctx context.Context, books []*models.Book) (*ImportResult, error) {
	log := logger.FromContext(ctx)
	result := &ImportResult{}

	for i, book := range books {
		book.Title = strings.TrimSpace(book.Title)
		book.Author = strings.TrimSpace(book.Author)
		book.ISBN = emptyToNil(book.ISBN)

		if book.Title == "" || book.Author == "" {
			log.Warn("skipping book without title or author", logger.Data{"index": i})
			result.Skipped++
			continue
		}

		err := svc.CreateBook(ctx, book)
		if err != nil {
			var codeErr *errcodes.Error
			if errors.As(err, &codeErr) && codeErr.Code == "conflict" {
				log.Info("skipping existing isbn", logger.Data{"index": i, "isbn": *book.ISBN})
				result.Skipped++
				continue
			}
			return result, errors.Wrapf(err, "failed to import book %d", i)
		}
		result.Created++
	}

	return result, nil
}
