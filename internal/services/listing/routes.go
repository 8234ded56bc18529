package listing

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the listing API.
func (s *ListingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/listings")

	api.Get("/", s.GetListings)
	api.Post("/", s.CreateListing)
}
