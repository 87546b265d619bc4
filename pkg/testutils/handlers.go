package testutils

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/shishobooks/catalog/pkg/users"
	"github.com/uptrace/bun"
)

type handler struct {
	db           *bun.DB
	userService  *users.Service
	bookService  *books.Service
	tokenService *auth.TokenService
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
}

// createUserResponse carries a ready-to-use token so suites can skip login.
type createUserResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

// createUser creates a test user.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	email := req.Username + "@test.local"
	if req.Email != nil {
		email = *req.Email
	}

	user, err := h.userService.Create(ctx, users.CreateUserOptions{
		Username: req.Username,
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	token, err := h.tokenService.Issue(user.ID)
	if err != nil {
		return errors.Wrap(err, "failed to issue token")
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:          user.ID,
		Username:    user.Username,
		AccessToken: token,
	})
}

// createBook inserts a book without requiring authentication.
// POST /test/books.
func (h *handler) createBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req books.CreateBookPayload
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Pages:           req.Pages,
		CoverURL:        req.CoverURL,
	}
	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, books.NewBookResponse(book))
}

// deleteAllDataResponse counts deleted rows per table.
type deleteAllDataResponse struct {
	Deleted map[string]int `json:"deleted"`
}

// deleteAllData empties every table.
// DELETE /test/data.
func (h *handler) deleteAllData(c echo.Context) error {
	ctx := c.Request().Context()

	resp := deleteAllDataResponse{Deleted: map[string]int{}}

	// Children first, for the foreign keys.
	tables := []struct {
		name  string
		model interface{}
	}{
		{"bookmarks", (*models.Bookmark)(nil)},
		{"ratings", (*models.Rating)(nil)},
		{"books", (*models.Book)(nil)},
		{"users", (*models.User)(nil)},
	}

	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range tables {
			result, err := tx.NewDelete().
				Model(table.model).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to delete %s", table.name)
			}
			deleted, _ := result.RowsAffected()
			resp.Deleted[table.name] = int(deleted)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
