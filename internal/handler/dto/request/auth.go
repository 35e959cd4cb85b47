package request

import (
	"library-api/internal/usecase/commands"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (r *RegisterRequest) ToCommand() commands.RegisterRequest {
	return commands.RegisterRequest{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is optional; the refresh_token cookie takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
