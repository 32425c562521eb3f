package configs

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupSession builds the cookie-backed session store used for flash
// messages and the public password unlock state.
func SetupSession() *session.Store {
	return session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:loventy_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}
