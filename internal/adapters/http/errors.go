package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// The bridge answers errors in plain text; the map page only shows them in
// the browser console.
func newError(c *fiber.Ctx, status int, msg string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(msg)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, msg)
}

// ErrorHandler renders errors that escape handlers, recovered panics
// included. Method mismatches are reported as 404 like unknown paths.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusMethodNotAllowed {
		code = fiber.StatusNotFound
	}
	msg := err.Error()
	if msg == "" {
		msg = "error"
	}
	return newError(c, code, msg)
}
