// Package routes defines the API routing configuration.
package routes

import (
	"errors"
	"net/http"

	"antifraud/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Dependencies carries the handlers mounted by SetupRoutes. Metrics may be nil.
type Dependencies struct {
	Screening *handlers.ScreeningHandler
	Health    *handlers.HealthHandler
	Metrics   http.Handler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", deps.Health.HealthCheck)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api/antifraud")

	api.Post("/transaction", deps.Screening.ScoreTransaction)
	api.Put("/transaction", deps.Screening.SubmitFeedback)
	api.Get("/history", deps.Screening.GetHistory)
	api.Get("/history/:number", deps.Screening.GetCardHistory)
	api.Get("/limits", deps.Screening.GetLimits)
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes, in the same shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
