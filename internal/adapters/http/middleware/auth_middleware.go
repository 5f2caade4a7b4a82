package middleware

import (
	"strings"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/config"
	"dwellhub/internal/pkg/authz"
	"dwellhub/internal/pkg/jwt"
	"dwellhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(models.RoleAdmin)
}

// ManagerOrAdmin middleware allows PROPERTY_MANAGER or ADMIN roles
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(models.RolePropertyManager, models.RoleAdmin)
}

// StaffOnly middleware allows any staff-side role
func StaffOnly() fiber.Handler {
	return RoleMiddleware(models.RoleBuildingStaff, models.RolePropertyManager, models.RoleAdmin)
}

// ActorFromContext builds the authz actor from the claims set by
// AuthMiddleware
func ActorFromContext(c *fiber.Ctx) (authz.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return authz.Actor{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return authz.Actor{}, false
	}
	return authz.Actor{UserID: userID, Role: role}, true
}

// tokenFromRequest reads the access token from the cookie or the
// Authorization header
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
