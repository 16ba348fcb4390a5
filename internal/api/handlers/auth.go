/**
 * @description
 * Auth API Handlers.
 * Login exchanges the admin credentials for the static bearer token; verify always succeeds.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/config
 */

package handlers

import (
	"github.com/dhrone-predicts/backend/internal/config"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login and session checks
type AuthHandler struct {
	auth config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUser is the identity returned to the dashboard
type AdminUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) user() AdminUser {
	return AdminUser{Email: h.auth.AdminEmail, Name: h.auth.AdminName}
}

// Login checks the credential pair
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if req.Email != h.auth.AdminEmail || req.Password != h.auth.AdminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   h.auth.Token,
		"user":    h.user(),
	})
}

// Verify reports the admin identity. It does not inspect the token.
// GET /api/auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    h.user(),
	})
}
