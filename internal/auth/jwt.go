package auth

import (
	"fmt"
	"time"

	"comanda-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint     `json:"user_id"`
	Username  string   `json:"username"`
	TenantID  string   `json:"tenant_id"`
	Roles     []string `json:"roles,omitempty"`
	TokenType string   `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// keyFunc is the single verification keyfunc for every token the server
// parses. Only HMAC-signed tokens are accepted.
func keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}

func generateToken(secret string, user *models.User, tenantID, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TenantID:  tenantID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if tokenType == TokenTypeAccess {
		claims.Roles = models.RoleNames(user.Roles)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateTokenPair(secret string, user *models.User, tenantID string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := generateToken(secret, user, tenantID, TokenTypeAccess, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken(secret, user, tenantID, TokenTypeRefresh, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
