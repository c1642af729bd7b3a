// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"radar-backend/internal/auth"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID  = "userID"
	LocalIsAdmin = "isAdmin"
)

// Auth resolves the caller's identity from a bearer token or the jwt
// cookie and stores it in the request locals.
func Auth(tokens *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("jwt")
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			if after, ok := strings.CutPrefix(header, "Bearer "); ok {
				tokenString = after
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		userID, isAdmin, err := tokens.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalIsAdmin, isAdmin)

		return c.Next()
	}
}

// AdminOnly rejects callers whose token does not carry the admin flag.
// It must run after Auth.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// UserID extracts the authenticated user id from the request locals.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}
