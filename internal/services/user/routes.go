package user

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the user API.
func (s *UserService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/users")

	api.Get("/me", s.GetMe)
	api.Post("/ban", s.BanUser)
	api.Post("/verify", s.VerifyUser)
}
