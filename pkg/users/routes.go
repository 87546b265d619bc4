package users

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/catalog/pkg/auth"
)

// RegisterRoutesWithGroup registers user routes on g, which is expected to be
// mounted at /api/users.
func RegisterRoutesWithGroup(g *echo.Group, userService *Service, tokenService *auth.TokenService, authMiddleware *auth.Middleware) {
	h := &handler{
		userService:  userService,
		tokenService: tokenService,
	}

	g.POST("/register", h.register)
	g.POST("/login", h.login)

	g.GET("/me", h.me, authMiddleware.Authenticate)
	g.PUT("/me", h.updateMe, authMiddleware.Authenticate)

	g.GET("/:id", h.retrieve)
}
