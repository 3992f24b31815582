package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/domain"
	apperrors "github.com/spec-kit/delivery-auth/pkg/util"
)

// errGuardOrder signals the role or ownership guard ran without an
// authenticated principal, which means routes were wired wrong.
var errGuardOrder = errors.New("authorization guard ran before authentication")

// RequireRoles accepts only principals whose role is in the allowed set. The
// allowed set is logged on rejection but never returned to the client.
func RequireRoles(logger *zap.Logger, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
		names = append(names, string(role))
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(errGuardOrder)
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			logger.Warn("role rejected",
				zap.String("path", c.Path()),
				zap.String("role", string(principal.Role)),
				zap.Strings("allowed_roles", names),
			)
			return apperrors.NewForbidden("Access denied")
		}
		return c.Next()
	}
}

// RequireResourceOwner accepts admins and principals whose id matches the
// userId found on the request, route parameter first, then body field.
func RequireResourceOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(errGuardOrder)
		}
		if principal.Role == domain.RoleAdmin {
			return c.Next()
		}

		ownerID := c.Params("userId")
		if ownerID == "" {
			var body struct {
				UserID string `json:"userId"`
			}
			if err := c.BodyParser(&body); err == nil {
				ownerID = body.UserID
			}
		}

		if ownerID == "" || principal.ID != ownerID {
			return apperrors.NewForbidden("You can only access your own resources")
		}
		return c.Next()
	}
}
