package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/auth"
	"github.com/shishobooks/catalog/pkg/bookmarks"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// Service handles user operations.
type Service struct {
	db        *bun.DB
	bookmarks *bookmarks.Service
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{
		db:        db,
		bookmarks: bookmarks.NewService(db),
	}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    string
	Password string
	FullName *string
	Bio      *string
}

// Create creates a new user with a hashed password.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", opts.Email).
		WhereOr("username = ?", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.Conflict("Email or username already exists")
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		CreatedAt:    time.Now(),
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		FullName:     opts.FullName,
		Bio:          opts.Bio,
	}

	_, err = s.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		// Lost a race with another registration.
		if database.IsUniqueViolation(err) {
			return nil, errcodes.Conflict("Email or username already exists")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// RetrieveUser gets a user by ID.
func (s *Service) RetrieveUser(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// RetrieveByUsername gets a user by their exact username.
func (s *Service) RetrieveByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user if valid. Unknown
// usernames and wrong passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.RetrieveByUsername(ctx, username)
	if err != nil {
		var codeErr *errcodes.Error
		if errors.As(err, &codeErr) {
			return nil, errcodes.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	return user, nil
}

// EmailTaken reports whether a user other than excludeID has the email.
func (s *Service) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", email).
		Where("id != ?", excludeID).
		Exists(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// UpdateOptions contains options for updating a user.
type UpdateOptions struct {
	Columns []string
}

// Update writes the given columns of user.
func (s *Service) Update(ctx context.Context, user *models.User, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	_, err := s.db.NewUpdate().
		Model(user).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("Email already in use")
		}
		return errors.WithStack(err)
	}

	return nil
}

// BookmarksCount returns how many books the user has bookmarked.
func (s *Service) BookmarksCount(ctx context.Context, userID int) (int, error) {
	return s.bookmarks.Count(ctx, userID)
}
