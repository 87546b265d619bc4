package books

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
)

// BookmarkChecker reports whether a user has bookmarked a book.
type BookmarkChecker interface {
	Contains(ctx context.Context, userID, bookID int) (bool, error)
}

type handler struct {
	bookService *Service
	bookmarks   BookmarkChecker
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Limit:  &params.Limit,
		Offset: &params.Skip,
		Search: params.Search,
		Genre:  params.Genre,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, NewBookResponses(books))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := BookDetailResponse{BookResponse: NewBookResponse(book)}

	if user, ok := auth.UserFromContext(c); ok {
		resp.IsBookmarked, err = h.bookmarks.Contains(ctx, user.ID, book.ID)
		if err != nil {
			return errors.WithStack(err)
		}
		resp.UserRating, err = h.bookService.UserRating(ctx, user.ID, book.ID)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) genres(c echo.Context) error {
	ctx := c.Request().Context()

	genres, err := h.bookService.ListGenres(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, genres)
}

func (h *handler) rate(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := RatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rating, err := h.bookService.Rate(ctx, user.ID, id, *params.Rating)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, NewRatingResponse(rating))
}

// create has no role check: any authenticated user can add books.
func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Invalid token")
	}

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:           params.Title,
		Author:          params.Author,
		Description:     params.Description,
		ISBN:            emptyToNil(params.ISBN),
		PublicationYear: params.PublicationYear,
		Genre:           emptyToNil(params.Genre),
		Pages:           params.Pages,
		CoverURL:        emptyToNil(params.CoverURL),
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book created", logger.Data{"book_id": book.ID, "user_id": user.ID})

	return c.JSON(http.StatusOK, NewBookResponse(book))
}

// emptyToNil keeps "" out of unique and filtered columns.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
