package users

import (
	"time"

	"github.com/shishobooks/catalog/pkg/models"
)

type UserResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type UserProfileResponse struct {
	UserResponse
	BookmarksCount int `json:"bookmarks_count"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}
