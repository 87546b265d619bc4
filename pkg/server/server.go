package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/binder"
	"github.com/shishobooks/catalog/pkg/bookmarks"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/testutils"
	"github.com/shishobooks/catalog/pkg/users"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	// /api/books/ and /api/books are the same route.
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	registerHealthRoutes(e)

	userService := users.NewService(db)
	bookService := books.NewService(db)
	bookmarkService := bookmarks.NewService(db)

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authMiddleware := auth.NewMiddleware(auth.NewResolver(tokenService, userService))

	api := e.Group("/api")
	users.RegisterRoutesWithGroup(api.Group("/users"), userService, tokenService, authMiddleware)
	books.RegisterRoutesWithGroup(api.Group("/books"), bookService, bookmarkService, authMiddleware)
	bookmarks.RegisterRoutesWithGroup(api.Group("/bookmarks"), bookmarkService, bookService, authMiddleware)

	if cfg.IsTest() {
		testutils.RegisterRoutes(e, db, userService, bookService, tokenService)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
