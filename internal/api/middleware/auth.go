/**
 * @description
 * Authentication middleware for the admin API.
 * Mutating routes require "Authorization: Bearer <token>" with the one configured token.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: HTTP Context
 *
 * @notes
 * - The token is a fixed value shared by the login endpoint and this check. There are
 *   no sessions, expiry or per-user tokens.
 */

package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// RequireAdminToken rejects any request whose bearer token is not exactly token
func RequireAdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return unauthorized(c)
		}

		presented := authHeader[len(bearerPrefix):]
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return unauthorized(c)
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}
