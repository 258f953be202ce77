package server

import (
	"errors"

	"backend-communityhub/internal/auth"
	"backend-communityhub/internal/config"
	"backend-communityhub/internal/db"
	"backend-communityhub/internal/feed"
	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/metrics"
	"backend-communityhub/internal/post"
	"backend-communityhub/internal/session"
	"backend-communityhub/internal/user"
	"backend-communityhub/internal/views"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Store    *db.Breaker
	Sessions *session.Store
}

// NewServer wires the board. A nil pool leaves the stores offline; a nil
// redis client leaves every request anonymous.
func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(map[string]interface{}{"timeAgo": feed.TimeAgoFromNow}),
		BodyLimit:    cfg.UploadBodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(logging.Middleware())

	var q db.Querier = db.Offline{}
	if pg != nil {
		q = pg
	}

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       pg,
		Redis:    redisClient,
		Store:    db.NewBreaker("postgres", q),
		Sessions: session.NewStore(redisClient, cfg.SessionSecret, cfg.SessionTTL),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	s.App.Use(auth.Attach(s.Sessions, s.Cfg.SessionCookie))

	users := user.NewStore(s.Store)
	posts := post.NewStore(s.Store)

	auth.RegisterRoutes(s.App, auth.NewService(users, s.Sessions, s.Cfg.CredentialScheme), auth.Cookie{
		Name:   s.Cfg.SessionCookie,
		TTL:    s.Cfg.SessionTTL,
		Secure: s.Cfg.CookieSecure,
	})
	feed.RegisterRoutes(s.App, feed.NewService(posts, users))
	post.RegisterRoutes(s.App, posts, auth.RequireSession())
	user.RegisterRoutes(s.App, users)

	s.App.Get("/about-us", func(c *fiber.Ctx) error {
		return views.Render(c, "about-us", fiber.Map{"Title": "About us"})
	})
	s.App.Get("/contact-us", func(c *fiber.Ctx) error {
		return views.Render(c, "contact-us", fiber.Map{"Title": "Contact us"})
	})
}

// errorHandler renders uncaught handler errors as the error page.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		logging.Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	if rerr := views.RenderError(c, code, message); rerr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}
