package bookmarks

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/books"
)

// RegisterRoutesWithGroup registers bookmark routes on g, which is expected to
// be mounted at /api/bookmarks. Every route requires authentication.
func RegisterRoutesWithGroup(g *echo.Group, bookmarkService *Service, bookService *books.Service, authMiddleware *auth.Middleware) {
	h := &handler{
		bookmarkService: bookmarkService,
		bookService:     bookService,
	}

	g.Use(authMiddleware.Authenticate)

	g.GET("", h.list)
	g.POST("/:id", h.add)
	g.DELETE("/:id", h.remove)
	g.GET("/:id/status", h.status)
}
