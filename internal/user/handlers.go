package user

import (
	"errors"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/storage"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, store *Store) {
	r.Get("/media/avatars/:userId", func(c *fiber.Ctx) error {
		att, err := store.Avatar(c.UserContext(), c.Params("userId"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "avatar not found")
			}
			logging.Err(err).Str("user_id", c.Params("userId")).Msg("load avatar")
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return storage.Send(c, att)
	})
}
