package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
)

const contextKeyUser = "user"

// UserLookup loads a user by primary key. It must return an errcodes
// NotFound error for unknown ids.
type UserLookup interface {
	RetrieveUser(ctx context.Context, id int) (*models.User, error)
}

// Resolver turns a bearer token on a request into the user it was issued to.
type Resolver struct {
	tokens *TokenService
	users  UserLookup
}

func NewResolver(tokens *TokenService, users UserLookup) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
	}
}

// RequireIdentity returns the authenticated user or a 401. Only unexpected
// lookup failures come back as something else.
func (r *Resolver) RequireIdentity(req *http.Request) (*models.User, error) {
	ctx := req.Context()
	log := logger.FromContext(ctx)

	token, ok := bearerToken(req)
	if !ok {
		return nil, errcodes.Unauthorized("Invalid token")
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		log.Debug("token rejected", logger.Data{"reason": err.Error()})
		return nil, errcodes.Unauthorized("Invalid token")
	}

	id, err := claims.SubjectID()
	if err != nil {
		log.Debug("token rejected", logger.Data{"reason": err.Error()})
		return nil, errcodes.Unauthorized("Invalid token")
	}

	user, err := r.users.RetrieveUser(ctx, id)
	if err != nil {
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) && codeErr.HTTPCode == http.StatusNotFound {
			log.Debug("token subject not found", logger.Data{"user_id": id})
			return nil, errcodes.Unauthorized("User not found")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// OptionalIdentity returns the authenticated user, or nil on any failure.
func (r *Resolver) OptionalIdentity(req *http.Request) *models.User {
	if _, ok := bearerToken(req); !ok {
		return nil
	}
	user, err := r.RequireIdentity(req)
	if err != nil {
		return nil
	}
	return user
}

func bearerToken(req *http.Request) (string, bool) {
	header := req.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Middleware provides authentication middleware.
type Middleware struct {
	resolver *Resolver
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(resolver *Resolver) *Middleware {
	return &Middleware{
		resolver: resolver,
	}
}

// Authenticate requires a valid bearer token and adds the user to the
// context. If not authenticated, it returns 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolver.RequireIdentity(c.Request())
		if err != nil {
			return err
		}

		c.Set(contextKeyUser, user)
		return next(c)
	}
}

// AuthenticateOptional adds the user to the context if a valid bearer token
// is present but doesn't require one.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user := m.resolver.OptionalIdentity(c.Request()); user != nil {
			c.Set(contextKeyUser, user)
		}
		return next(c)
	}
}

// UserFromContext returns the user set by Authenticate or
// AuthenticateOptional.
func UserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(contextKeyUser).(*models.User)
	return user, ok && user != nil
}
