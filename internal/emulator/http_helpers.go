package emulator

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/femcare/internal/services"
)

var errNotVisible = fmt.Errorf("%w: owned by another user", services.ErrNotFound)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// storeError maps repository failures onto HTTP statuses. Anything other than
// not-found is logged and hidden behind a 500.
func storeError(c *fiber.Ctx, operation string, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	log.Printf("emulator: %s failed: %v", operation, err)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func forbidden(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusForbidden, "forbidden")
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
