package transaction

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the transaction API.
func (s *TransactionService) SetupRoutes(app *fiber.App) {
	app.Post("/api/transactions", s.CreateTransaction)
	app.Get("/api/my-stuff", s.GetMyStuff)
}
