package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/catalog/pkg/auth"
)

// RegisterRoutesWithGroup registers book routes on g, which is expected to be
// mounted at /api/books.
func RegisterRoutesWithGroup(g *echo.Group, bookService *Service, bookmarks BookmarkChecker, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService: bookService,
		bookmarks:   bookmarks,
	}

	g.GET("", h.list)
	g.GET("/genre/list/all", h.genres)
	g.GET("/:id", h.retrieve, authMiddleware.AuthenticateOptional)

	g.POST("/:id/rate", h.rate, authMiddleware.Authenticate)
	g.POST("/admin/create", h.create, authMiddleware.Authenticate)
}
