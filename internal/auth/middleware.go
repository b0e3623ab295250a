package auth

import (
	"strings"

	"comanda-backend/internal/config"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxRolesKey    = "user_roles"
	CtxTenantIDKey = "tenant_id"
)

// ResolveTenant reads the tenant slug from the X-Tenant header. Subdomain
// resolution can be added later; "default" keeps single-tenant installs
// working without the header.
func ResolveTenant(c *fiber.Ctx) string {
	if t := strings.TrimSpace(c.Get("X-Tenant")); t != "" {
		return t
	}
	return "default"
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, keyFunc(cfg.JWTSecret))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed token claims")
		}
		if claims.TokenType != TokenTypeAccess {
			return fiber.NewError(fiber.StatusUnauthorized, "access token required")
		}
		if tenant := ResolveTenant(c); tenant != claims.TenantID {
			return fiber.NewError(fiber.StatusForbidden, "token belongs to another tenant")
		}

		roles := make([]models.Role, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			if role, ok := models.ParseRole(r); ok {
				roles = append(roles, role)
			}
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxRolesKey, roles)
		c.Locals(CtxTenantIDKey, claims.TenantID)

		return c.Next()
	}
}

// HasRole is the capability check: true when the user holds at least one of
// the wanted roles.
func HasRole(roles []models.Role, wanted ...models.Role) bool {
	for _, w := range wanted {
		for _, r := range roles {
			if r == w {
				return true
			}
		}
	}
	return false
}

func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, ok := c.Locals(CtxRolesKey).([]models.Role)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role information unavailable")
		}
		if !HasRole(roles, allowed...) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// TenantID pulls the tenant set by JWTMiddleware; handlers pass it on to the
// core explicitly, never through shared state.
func TenantID(c *fiber.Ctx) string {
	if t, ok := c.Locals(CtxTenantIDKey).(string); ok {
		return t
	}
	return ""
}

func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(CtxUserIDKey).(uint); ok {
		return id
	}
	return 0
}

func UserRoles(c *fiber.Ctx) []models.Role {
	if roles, ok := c.Locals(CtxRolesKey).([]models.Role); ok {
		return roles
	}
	return nil
}
