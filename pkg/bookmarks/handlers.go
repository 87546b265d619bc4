package bookmarks

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
)

type handler struct {
	bookmarkService *Service
	bookService     *books.Service
}

type BookmarkedBookResponse struct {
	books.BookResponse
	AddedAt time.Time `json:"added_at"`
}

type StatusResponse struct {
	IsBookmarked bool `json:"is_bookmarked"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Invalid token")
	}

	bookmarks, err := h.bookmarkService.ListBooks(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := make([]BookmarkedBookResponse, 0, len(bookmarks))
	for _, bm := range bookmarks {
		if bm.Book == nil {
			continue
		}
		resp = append(resp, BookmarkedBookResponse{
			BookResponse: books.NewBookResponse(bm.Book),
			AddedAt:      bm.AddedAt,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Request().Context()

	user, book, err := h.userAndBook(c)
	if err != nil {
		return err
	}

	if err := h.bookmarkService.Add(ctx, user.ID, book.ID); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{"Book added to bookmarks"})
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Request().Context()

	user, book, err := h.userAndBook(c)
	if err != nil {
		return err
	}

	if err := h.bookmarkService.Remove(ctx, user.ID, book.ID); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{"Book removed from bookmarks"})
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	user, book, err := h.userAndBook(c)
	if err != nil {
		return err
	}

	bookmarked, err := h.bookmarkService.Contains(ctx, user.ID, book.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, StatusResponse{bookmarked})
}

func (h *handler) userAndBook(c echo.Context) (*models.User, *models.Book, error) {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return nil, nil, errcodes.Unauthorized("Invalid token")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, nil, errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(c.Request().Context(), books.RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return user, book, nil
}
