package post

import (
	"errors"
	"strings"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/metrics"
	"backend-communityhub/internal/session"
	"backend-communityhub/internal/storage"
	"backend-communityhub/internal/validation"
	"backend-communityhub/internal/views"

	"github.com/gofiber/fiber/v2"
)

// CreateRequest is the text part of the /create-post form. Files are read
// separately from the multipart form.
type CreateRequest struct {
	Title    string `form:"title" validate:"required,max=300"`
	Link     string `form:"link" validate:"omitempty,max=2048"`
	Category string `form:"category" validate:"required,max=100,ne=All"`
	Content  string `form:"content" validate:"required"`
}

func RegisterRoutes(r fiber.Router, store *Store, requireSession fiber.Handler) {
	r.Post("/create-post", requireSession, func(c *fiber.Ctx) error {
		owner, _ := session.Current(c)

		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return views.RenderError(c, fiber.StatusBadRequest, "Invalid post form")
		}
		req.Title = strings.TrimSpace(req.Title)
		req.Category = strings.TrimSpace(req.Category)
		if err := validation.Struct(req); err != nil {
			return views.RenderError(c, fiber.StatusBadRequest, err.Error())
		}

		in := NewPost{
			Title:    req.Title,
			Link:     strings.TrimSpace(req.Link),
			Category: req.Category,
			Content:  req.Content,
			UserID:   owner.ID,
		}
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			form, err := c.MultipartForm()
			if err != nil {
				return views.RenderError(c, fiber.StatusBadRequest, "Invalid post form")
			}
			if in.Image, err = storage.FromForm(form, "image"); err != nil {
				logging.Err(err).Msg("read image upload")
				return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
			}
			if in.Poster, err = storage.FromForm(form, "poster"); err != nil {
				logging.Err(err).Msg("read poster upload")
				return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
			}
		}

		p, err := store.Create(c.UserContext(), in)
		if err != nil {
			logging.Err(err).Str("user_id", owner.ID).Msg("create post")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		metrics.PostsCreated.Inc()
		logging.Info().Str("post_id", p.ID).Str("user_id", owner.ID).Str("category", p.Category).Msg("post created")
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	r.Get("/media/posts/:postId/:kind", func(c *fiber.Ctx) error {
		kind := Kind(c.Params("kind"))
		att, err := store.Attachment(c.UserContext(), c.Params("postId"), kind)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownKind) {
				return fiber.NewError(fiber.StatusNotFound, "attachment not found")
			}
			logging.Err(err).Str("post_id", c.Params("postId")).Msg("load attachment")
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return storage.Send(c, att)
	})
}
