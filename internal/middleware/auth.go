package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/pkg/jwtutil"
	"studio-service/pkg/logger"
)

// ClaimsKey is the echo context key the authenticated caller's claims are
// stored under.
const ClaimsKey = "claims"

// JWTAuthMiddleware authenticates the request by validating the bearer
// token and stashes the parsed claims in the context. Authorization itself
// happens inside the services, behind the single gate.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(ClaimsKey, claims)
			log.Debug("Request authenticated",
				zap.String("uid", claims.UID),
				zap.String("email", claims.Email),
				zap.String("role", claims.Role))

			return next(c)
		}
	}
}

// CallerClaims returns the claims stashed by JWTAuthMiddleware, or nil when
// the request was not authenticated.
func CallerClaims(c echo.Context) *jwtutil.Claims {
	claims, _ := c.Get(ClaimsKey).(*jwtutil.Claims)
	return claims
}
