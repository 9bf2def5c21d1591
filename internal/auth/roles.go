package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/complaint-desk/complaint-service/internal/domain"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

// RequireRoles ensures the authenticated account holds one of the allowed roles.
// It must run after AuthMiddleware.Handle.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		account, ok := AccountFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("User not authenticated")
		}
		if _, exists := allowedSet[account.Role]; !exists {
			return apperrors.NewForbidden(fmt.Sprintf("Access denied. Role '%s' is not authorized for this resource.", account.Role))
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures the caller passed the authentication gate.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := AccountFromContext(c); !ok {
			return apperrors.NewUnauthorized("User not authenticated")
		}
		return c.Next()
	}
}
