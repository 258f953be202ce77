// Package views holds the embedded HTML templates and the helpers every
// handler uses to render them.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"backend-communityhub/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine builds the template engine with funcs registered before the
// first render.
func NewEngine(funcs map[string]interface{}) *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	for name, fn := range funcs {
		engine.AddFunc(name, fn)
	}
	return engine
}

// Render renders name inside the main layout. The session user, if any, is
// exposed to every template as .User.
func Render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	if u, ok := session.Current(c); ok {
		data["User"] = u
	} else {
		data["User"] = nil
	}
	return c.Render(name, data, Layout)
}

func RenderStatus(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	c.Status(status)
	return Render(c, name, data)
}

// RenderError renders the generic error page.
func RenderError(c *fiber.Ctx, status int, message string) error {
	return RenderStatus(c, status, "error", fiber.Map{"Title": "Error", "Error": message})
}
