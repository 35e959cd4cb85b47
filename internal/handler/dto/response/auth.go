package response

import (
	"library-api/internal/domain/user"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AuthUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"isActive"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) *AuthUserResponse {
	res := &AuthUserResponse{}
	_ = copier.Copy(res, v)
	return res
}

func fromUser(u *user.User) *AuthUserResponse {
	return &AuthUserResponse{
		ID:       u.ID(),
		Name:     u.Name().Value(),
		Email:    u.Email().Value(),
		Role:     u.Role().String(),
		IsActive: u.IsActive(),
	}
}

// AuthResponse carries the access token in the body for clients that cannot use cookies.
// The refresh token is only delivered as an httpOnly cookie.
type AuthResponse struct {
	User        *AuthUserResponse `json:"user"`
	AccessToken string            `json:"accessToken"`
	ExpiresIn   int64             `json:"expiresIn"`
}

func FromAuthResult(r *commands.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:        fromUser(r.User),
		AccessToken: r.Tokens.AccessToken,
		ExpiresIn:   int64(r.Tokens.AccessExpiresIn.Seconds()),
	}
}
