package dto

import (
	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/internal/service"
)

// RegisterRequest payload for new accounts. Role defaults to customer.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest payload for token refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// PrincipalSummary is the caller-visible slice of an account.
type PrincipalSummary struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// AuthResponse is the standard response for login and refresh.
type AuthResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         PrincipalSummary `json:"user"`
}

// NewAuthResponse maps a service result onto the wire shape.
func NewAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User: PrincipalSummary{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	}
}
