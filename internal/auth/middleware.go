package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/domain"
	"github.com/spec-kit/delivery-auth/internal/repository"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for one request.
type Principal struct {
	ID    string
	Email string
	Role  domain.Role
}

// Middleware validates bearer access tokens and loads principals.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	logger     *zap.Logger
	dirTimeout time.Duration
}

// NewMiddleware constructs the authentication guard.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger, dirTimeout time.Duration) *Middleware {
	return &Middleware{tokens: tokens, users: users, logger: logger, dirTimeout: dirTimeout}
}

// Handle enforces authentication for protected routes. The token's role claim
// is not trusted: the principal is re-resolved from the user directory so a
// role change takes effect immediately.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Authentication required")
	}

	claims, err := m.tokens.Verify(parts[1], FlavorAccess)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			m.logger.Warn("expired access token", zap.String("path", c.Path()))
		} else {
			m.logger.Warn("invalid access token", zap.String("path", c.Path()))
		}
		return apperrors.NewUnauthorized("Authentication required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), m.dirTimeout)
	defer cancel()

	user, err := m.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewDirectoryUnavailable(err)
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{ID: user.ID, Email: user.Email, Role: user.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SetPrincipal attaches a principal to the request. Used by tests and by the
// guard above; handlers never call this.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}
