// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"cardhub/internal/handlers"
	"cardhub/internal/middleware"
	"cardhub/internal/models"
	"cardhub/internal/services/card"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, cardService card.Service, health *handlers.HealthHandler, auth *middleware.AuthMiddleware) {
	app.Get("/health", health.HealthCheck)

	cardHandler := handlers.NewCardHandler(cardService)

	api := app.Group("/api", auth.Handler)

	// Cardholder routes, scoped to the token's cardholder
	cards := api.Group("/cards")
	cards.Get("/", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetCards)
	cards.Post("/", middleware.HasPermission(models.PermissionCardWrite), cardHandler.CreateCard)
	cards.Patch("/status", middleware.HasPermission(models.PermissionCardWrite), cardHandler.UpdateCardStatus)
	cards.Patch("/limits", middleware.HasPermission(models.PermissionCardWrite), cardHandler.UpdateCardLimits)
	cards.Get("/:id", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetCard)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/cards/:id", middleware.HasPermission(models.PermissionReadAdmin), cardHandler.LookupCard)
}
