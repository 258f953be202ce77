package session

import "github.com/gofiber/fiber/v2"

const localsKey = "session_user"

// Bind attaches u to the request for downstream handlers.
func Bind(c *fiber.Ctx, u User) {
	c.Locals(localsKey, u)
}

// Current returns the user bound to this request, if any.
func Current(c *fiber.Ctx) (User, bool) {
	u, ok := c.Locals(localsKey).(User)
	return u, ok
}
