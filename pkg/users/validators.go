package users

// RegisterPayload represents the request body for registering.
type RegisterPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,max=50"`
	Email    string  `json:"email" mod:"trim" validate:"required,email,max=100"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name" mod:"trim" validate:"omitempty,max=100"`
	Bio      *string `json:"bio"`
}

// LoginPayload is read from a form body, as OAuth2 password clients send it,
// or from JSON.
type LoginPayload struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// UpdateMePayload represents the request body for updating the current user.
// Nil fields are left alone.
type UpdateMePayload struct {
	FullName *string `json:"full_name" mod:"trim" validate:"omitempty,max=100"`
	Bio      *string `json:"bio"`
	Email    *string `json:"email" mod:"trim" validate:"omitempty,email,max=100"`
}
