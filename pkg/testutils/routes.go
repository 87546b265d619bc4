// Package testutils provides test-only API endpoints.
// These routes are only registered when ENVIRONMENT=test.
package testutils

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/users"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers test-only routes.
// These endpoints should ONLY be registered in test environments.
func RegisterRoutes(e *echo.Echo, db *bun.DB, userService *users.Service, bookService *books.Service, tokenService *auth.TokenService) {
	h := &handler{
		db:           db,
		userService:  userService,
		bookService:  bookService,
		tokenService: tokenService,
	}

	test := e.Group("/test")
	test.POST("/users", h.createUser)
	test.POST("/books", h.createBook)
	test.DELETE("/data", h.deleteAllData)
}
