package middleware

import (
	"strings"

	"loanflow/internal/config"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/jwt"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const callerKey = "caller"

// AuthMiddleware verifies the access token and stores the caller in locals
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set caller in context
		c.Locals(callerKey, domain.Caller{ID: claims.Subject, Role: role})

		return c.Next()
	}
}

// CallerFrom returns the caller stored by AuthMiddleware
func CallerFrom(c *fiber.Ctx) (domain.Caller, bool) {
	caller, ok := c.Locals(callerKey).(domain.Caller)
	return caller, ok
}
