package auth

import (
	"strings"
	"time"

	"comanda-backend/internal/config"
	"comanda-backend/internal/database"
	"comanda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		tenant := strings.TrimSpace(body.Tenant)
		if tenant == "" {
			tenant = ResolveTenant(c)
		}

		var user models.User
		err := database.DB.Preload("Roles").
			Where("username = ? AND tenant_id = ?", body.Username, tenant).
			First(&user).Error
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid username or password")
		}
		if !user.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "invalid username or password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid username or password")
		}

		pair, err := GenerateTokenPair(cfg.JWTSecret, &user, tenant,
			time.Duration(cfg.AccessTokenMinutes)*time.Minute,
			time.Duration(cfg.RefreshTokenMinutes)*time.Minute)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue tokens")
		}

		return c.JSON(pair)
	}
}

func RefreshHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		token, err := jwt.ParseWithClaims(body.RefreshToken, &Claims{}, keyFunc(cfg.JWTSecret))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusBadRequest, "invalid refresh token")
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.TokenType != TokenTypeRefresh {
			return fiber.NewError(fiber.StatusBadRequest, "invalid refresh token")
		}
		if tenant := ResolveTenant(c); tenant != claims.TenantID {
			return fiber.NewError(fiber.StatusForbidden, "token belongs to another tenant")
		}

		var user models.User
		err = database.DB.Preload("Roles").
			Where("id = ? AND tenant_id = ?", claims.UserID, claims.TenantID).
			First(&user).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		pair, err := GenerateTokenPair(cfg.JWTSecret, &user, claims.TenantID,
			time.Duration(cfg.AccessTokenMinutes)*time.Minute,
			time.Duration(cfg.RefreshTokenMinutes)*time.Minute)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not issue tokens")
		}

		return c.JSON(pair)
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		err := database.DB.Preload("Roles").
			Where("id = ? AND tenant_id = ?", UserID(c), TenantID(c)).
			First(&user).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		return c.JSON(fiber.Map{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"tenant_id": user.TenantID,
			"roles":     models.RoleNames(user.Roles),
			"is_active": user.IsActive,
		})
	}
}
