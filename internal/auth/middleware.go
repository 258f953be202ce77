package auth

import (
	"errors"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Attach resolves the session cookie, if any, and binds its user to the
// request. A missing or dead session leaves the request anonymous.
func Attach(sessions *session.Store, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Next()
		}
		u, err := sessions.Lookup(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				logging.Err(err).Msg("resolve session")
			}
			return c.Next()
		}
		session.Bind(c, u)
		return c.Next()
	}
}

// RequireSession lets bound requests through and redirects the rest to
// the login form.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := session.Current(c); !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
