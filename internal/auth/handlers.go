package auth

import (
	"errors"
	"strings"
	"time"

	"backend-communityhub/internal/logging"
	"backend-communityhub/internal/metrics"
	"backend-communityhub/internal/storage"
	"backend-communityhub/internal/validation"
	"backend-communityhub/internal/views"

	"github.com/gofiber/fiber/v2"
)

// Cookie describes the session cookie handed out at login.
type Cookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func RegisterRoutes(r fiber.Router, svc *Service, cookie Cookie) {
	r.Get("/login", func(c *fiber.Ctx) error {
		return views.Render(c, "login", fiber.Map{"Title": "Log in", "Error": "", "Email": ""})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return views.RenderStatus(c, fiber.StatusBadRequest, "login", fiber.Map{"Title": "Log in", "Error": "Invalid login form", "Email": ""})
		}
		req.Email = strings.TrimSpace(req.Email)

		u, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				metrics.Logins.WithLabelValues("rejected").Inc()
				return views.Render(c, "login", fiber.Map{"Title": "Log in", "Error": err.Error(), "Email": req.Email})
			}
			metrics.Logins.WithLabelValues("error").Inc()
			logging.Err(err).Msg("login")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}

		token, err := svc.StartSession(c.UserContext(), u)
		if err != nil {
			metrics.Logins.WithLabelValues("error").Inc()
			logging.Err(err).Str("user_id", u.ID).Msg("login")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		setSessionCookie(c, cookie, token)
		metrics.Logins.WithLabelValues("success").Inc()
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	r.Get("/sign", func(c *fiber.Ctx) error {
		return views.Render(c, "sign", fiber.Map{"Title": "Sign up", "Error": "", "Username": "", "Email": ""})
	})

	r.Post("/sign", func(c *fiber.Ctx) error {
		var req SignRequest
		if err := c.BodyParser(&req); err != nil {
			return views.RenderStatus(c, fiber.StatusBadRequest, "sign", fiber.Map{"Title": "Sign up", "Error": "Invalid sign-up form", "Username": "", "Email": ""})
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		form := fiber.Map{"Title": "Sign up", "Username": req.Username, "Email": req.Email}

		if err := validation.Struct(req); err != nil {
			metrics.Registrations.WithLabelValues("rejected").Inc()
			form["Error"] = err.Error()
			return views.RenderStatus(c, fiber.StatusBadRequest, "sign", form)
		}

		u, err := svc.Register(c.UserContext(), NewAccount{Username: req.Username, Email: req.Email, Password: req.Password})
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				metrics.Registrations.WithLabelValues("rejected").Inc()
				form["Error"] = err.Error()
				return views.Render(c, "sign", form)
			}
			metrics.Registrations.WithLabelValues("error").Inc()
			logging.Err(err).Msg("sign up")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		metrics.Registrations.WithLabelValues("success").Inc()
		logging.Info().Str("user_id", u.ID).Msg("account created")
		return c.Redirect("/login", fiber.StatusSeeOther)
	})

	r.Get("/register", func(c *fiber.Ctx) error {
		return views.Render(c, "register", fiber.Map{"Title": "Register", "Error": "", "Username": "", "Email": "", "Bio": ""})
	})

	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return views.RenderStatus(c, fiber.StatusBadRequest, "register", fiber.Map{"Title": "Register", "Error": "Invalid registration form", "Username": "", "Email": "", "Bio": ""})
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		form := fiber.Map{"Title": "Register", "Username": req.Username, "Email": req.Email, "Bio": req.Bio}

		if err := validation.Struct(req); err != nil {
			metrics.Registrations.WithLabelValues("rejected").Inc()
			form["Error"] = err.Error()
			return views.RenderStatus(c, fiber.StatusBadRequest, "register", form)
		}

		in := NewAccount{Username: req.Username, Email: req.Email, Password: req.Password, Bio: strings.TrimSpace(req.Bio)}
		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			mf, err := c.MultipartForm()
			if err != nil {
				form["Error"] = "Invalid registration form"
				return views.RenderStatus(c, fiber.StatusBadRequest, "register", form)
			}
			if in.Avatar, err = storage.FromForm(mf, "avatar"); err != nil {
				logging.Err(err).Msg("read avatar upload")
				return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
			}
		}

		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				metrics.Registrations.WithLabelValues("rejected").Inc()
				form["Error"] = err.Error()
				return views.Render(c, "register", form)
			}
			metrics.Registrations.WithLabelValues("error").Inc()
			logging.Err(err).Msg("register")
			return views.RenderError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		metrics.Registrations.WithLabelValues("success").Inc()
		logging.Info().Str("user_id", u.ID).Bool("avatar", u.HasAvatar).Msg("account registered")

		token, err := svc.StartSession(c.UserContext(), u)
		if err != nil {
			// The account exists; the user can still log in by hand.
			logging.Err(err).Str("user_id", u.ID).Msg("register")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		setSessionCookie(c, cookie, token)
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	r.Get("/logout", func(c *fiber.Ctx) error {
		if token := c.Cookies(cookie.Name); token != "" {
			if err := svc.EndSession(c.UserContext(), token); err != nil {
				logging.Err(err).Msg("end session")
			}
		}
		c.Cookie(&fiber.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   cookie.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect("/login", fiber.StatusSeeOther)
	})
}

func setSessionCookie(c *fiber.Ctx, cookie Cookie, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cookie.TTL),
		HTTPOnly: true,
		Secure:   cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
