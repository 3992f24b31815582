package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/delivery-auth/internal/config"
	"github.com/spec-kit/delivery-auth/internal/domain"
)

// TokenFlavor selects which signing secret and lifetime apply.
type TokenFlavor string

const (
	FlavorAccess  TokenFlavor = "access"
	FlavorRefresh TokenFlavor = "refresh"
)

// Sentinel verification failures. Both reject the request; callers flatten
// them to a generic unauthorized message but log them apart.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// TokenManager issues and verifies JWT tokens. Each flavor is signed with its
// own secret, so an access token can never verify as a refresh token or the
// other way around, even with a forged expiry.
type TokenManager struct {
	secrets map[TokenFlavor][]byte
	ttls    map[TokenFlavor]time.Duration
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secrets: map[TokenFlavor][]byte{
			FlavorAccess:  []byte(cfg.AccessTokenSecret),
			FlavorRefresh: []byte(cfg.RefreshTokenSecret),
		},
		ttls: map[TokenFlavor]time.Duration{
			FlavorAccess:  cfg.AccessTokenTTL,
			FlavorRefresh: cfg.RefreshTokenTTL,
		},
	}
}

// Claims describes the JWT payload for both flavors.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a token of the given flavor for the user.
func (tm *TokenManager) Issue(user *domain.User, flavor TokenFlavor) (string, time.Time, error) {
	secret, ok := tm.secrets[flavor]
	if !ok || len(secret) == 0 {
		return "", time.Time{}, errors.New("no signing secret configured for flavor " + string(flavor))
	}

	now := time.Now()
	expiresAt := now.Add(tm.ttls[flavor])
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates signature and expiry for the given flavor and returns claims.
func (tm *TokenManager) Verify(tokenStr string, flavor TokenFlavor) (*Claims, error) {
	secret, ok := tm.secrets[flavor]
	if !ok || len(secret) == 0 {
		return nil, errors.New("no signing secret configured for flavor " + string(flavor))
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
