// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"log"
	"strings"

	"beamscan/internal/models"
	"beamscan/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LocalDeviceID is the fiber Locals key holding the caller's device id.
const LocalDeviceID = "deviceID"

// AuthMiddleware validates HS256 bearer tokens carrying ScannerClaims.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	if secret == "" {
		panic("jwt secret is required")
	}
	return &AuthMiddleware{secret: []byte(secret)}
}

// Handler rejects requests without a valid token and stores the claims and
// device id in the request locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &models.ScannerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		log.Printf("Token validation error: %v", err)
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if claims.DeviceID == "" {
		return response.Error(c, fiber.StatusUnauthorized, "invalid claims")
	}

	c.Locals("claims", claims)
	c.Locals(LocalDeviceID, claims.DeviceID)
	return c.Next()
}

// DeviceID returns the authenticated device id, or fallback when the
// request was not authenticated.
func DeviceID(c *fiber.Ctx, fallback string) string {
	if id, ok := c.Locals(LocalDeviceID).(string); ok && id != "" {
		return id
	}
	return fallback
}

// IssueToken signs a token for deviceID. Used by operators and tests.
func IssueToken(secret, deviceID string, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.ScannerClaims{
		RegisteredClaims: claims,
		DeviceID:         deviceID,
	})
	return token.SignedString([]byte(secret))
}
