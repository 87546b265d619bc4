package users

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/errcodes"
)

type handler struct {
	userService  *Service
	tokenService *auth.TokenService
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Create(ctx, CreateUserOptions(params))
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("user registered", logger.Data{"user_id": user.ID})

	return h.tokenResponse(c, user.ID, NewUserResponse(user))
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		logger.FromContext(ctx).Info("login failed", logger.Data{"username": params.Username})
		return err
	}

	return h.tokenResponse(c, user.ID, NewUserResponse(user))
}

func (h *handler) tokenResponse(c echo.Context, userID int, user UserResponse) error {
	token, err := h.tokenService.Issue(userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *handler) me(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Invalid token")
	}

	count, err := h.userService.BookmarksCount(ctx, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UserProfileResponse{
		UserResponse:   NewUserResponse(user),
		BookmarksCount: count,
	})
}

func (h *handler) updateMe(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Invalid token")
	}

	params := UpdateMePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.Email != nil && *params.Email != "" && *params.Email != user.Email {
		taken, err := h.userService.EmailTaken(ctx, *params.Email, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return errcodes.Conflict("Email already in use")
		}
		user.Email = *params.Email
		opts.Columns = append(opts.Columns, "email")
	}
	if params.FullName != nil {
		user.FullName = params.FullName
		opts.Columns = append(opts.Columns, "full_name")
	}
	if params.Bio != nil {
		user.Bio = params.Bio
		opts.Columns = append(opts.Columns, "bio")
	}

	if err := h.userService.Update(ctx, user, opts); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, NewUserResponse(user))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("User")
	}

	user, err := h.userService.RetrieveUser(ctx, id)
	if err != nil {
		return err
	}

	count, err := h.userService.BookmarksCount(ctx, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UserProfileResponse{
		UserResponse:   NewUserResponse(user),
		BookmarksCount: count,
	})
}
