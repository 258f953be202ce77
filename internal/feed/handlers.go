package feed

import (
	"errors"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/metrics"
	"backend-communityhub/internal/post"
	"backend-communityhub/internal/validation"
	"backend-communityhub/internal/views"

	"github.com/gofiber/fiber/v2"
)

type QueryParams struct {
	Search   string `query:"search" form:"search" validate:"max=200"`
	Category string `query:"category" form:"category" validate:"max=100"`
}

// RegisterRoutes mounts the feed on / and /events. Both run the same
// query and differ only in template.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", feedHandler(svc, "index"))
	r.Get("/events", feedHandler(svc, "events"))

	r.Get("/post/:postId", func(c *fiber.Ctx) error {
		entry, err := svc.Detail(c.UserContext(), c.Params("postId"))
		if err != nil {
			if errors.Is(err, post.ErrNotFound) {
				return views.RenderError(c, fiber.StatusNotFound, "Post not found")
			}
			logging.Err(err).Str("post_id", c.Params("postId")).Msg("load post detail")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		return views.Render(c, "post-detail", fiber.Map{"Title": entry.Title, "Post": entry})
	})
}

func feedHandler(svc *Service, template string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q QueryParams
		if err := c.QueryParser(&q); err != nil {
			return renderFeed(c, fiber.StatusBadRequest, template, CategorizedFeed{}, QueryParams{}, "Invalid query")
		}
		if err := validation.Struct(q); err != nil {
			return renderFeed(c, fiber.StatusBadRequest, template, CategorizedFeed{}, QueryParams{}, err.Error())
		}

		feed, err := svc.Query(c.UserContext(), Filter{Search: q.Search, Category: q.Category})
		if err != nil {
			metrics.FeedQueries.WithLabelValues("degraded").Inc()
			logging.Err(err).Str("search", q.Search).Str("category", q.Category).Msg("fetch feed")
			return renderFeed(c, fiber.StatusInternalServerError, template, feed, QueryParams{}, "Error fetching posts")
		}
		metrics.FeedQueries.WithLabelValues("ok").Inc()
		return renderFeed(c, fiber.StatusOK, template, feed, q, "")
	}
}

// renderFeed always renders the feed page, filter form included; failures
// only set the error flag.
func renderFeed(c *fiber.Ctx, status int, template string, feed CategorizedFeed, q QueryParams, message string) error {
	selected := q.Category
	if selected == "" {
		selected = AllCategories
	}
	return views.RenderStatus(c, status, template, fiber.Map{
		"Posts":            feed,
		"Categories":       feed.Categories(),
		"Error":            message,
		"Search":           q.Search,
		"SelectedCategory": selected,
	})
}
