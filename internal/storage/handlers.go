package storage

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	fallbackContentType = "application/octet-stream"
	blobPolicy          = "default-src 'none'; sandbox"
)

// Send writes a as the response body, or 404 when a is nil. The declared
// content type is echoed, but the body never runs as active content on
// this origin: only images are served inline.
func Send(c *fiber.Ctx, a *Attachment) error {
	if a == nil {
		return fiber.NewError(fiber.StatusNotFound, "attachment not found")
	}
	ct := a.ContentType
	if ct == "" {
		ct = fallbackContentType
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentSecurityPolicy, blobPolicy)
	if !inlineSafe(ct) {
		c.Set(fiber.HeaderContentDisposition, "attachment")
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Send(a.Data)
}

func inlineSafe(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
