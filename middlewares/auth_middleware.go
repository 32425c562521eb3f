package middlewares

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Identity is established upstream: the reverse proxy in front of this app
// authenticates the user and forwards the account id in a trusted header.
// This middleware only surfaces it; there is no login flow here.
const identityHeader = "X-User-ID"

// ResolveIdentity copies the upstream identity header into locals so
// handlers can read c.Locals("userID") uniformly.
func ResolveIdentity(c *fiber.Ctx) error {
	if raw := c.Get(identityHeader); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			c.Locals("userID", uint(id))
		}
	}
	return c.Next()
}

// AuthMiddleware rejects panel requests that arrived without an identity.
func AuthMiddleware(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		accepts := c.Accepts("text/html", "application/json")
		if accepts == "application/json" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Status(fiber.StatusUnauthorized).Render("errors/401", fiber.Map{
			"Title": "Connexion requise",
		}, "layouts/error_layout")
	}
	return c.Next()
}
