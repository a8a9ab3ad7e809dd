// Package emulator serves the REST document API of the remote store from a local
// SQLite database. It performs storage only; validation and state transitions
// belong to the client services.
package emulator

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/femcare/internal/db"
)

type Handler struct {
	repositories *db.Repositories
	secretKey    []byte
	rejections   *tokenRejections
}

func NewHandler(repositories *db.Repositories, secretKey string) (*Handler, error) {
	if repositories == nil {
		return nil, errors.New("repositories are required")
	}
	secret, err := ResolveSecretKey(secretKey)
	if err != nil {
		return nil, err
	}
	return &Handler{
		repositories: repositories,
		secretKey:    []byte(secret),
		rejections:   newTokenRejections(rejectedTokenLimit, rejectedTokenWindow),
	}, nil
}

type AppOptions struct {
	RequestLogging bool
}

func NewApp(handler *Handler, options AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "femcare emulator",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if options.RequestLogging {
		app.Use(logger.New())
	}
	app.Use(compress.New())

	RegisterRoutes(app, handler)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("emulator: %s %s failed: %v", c.Method(), c.Path(), err)
		return apiError(c, status, "internal error")
	}
	return apiError(c, status, err.Error())
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
