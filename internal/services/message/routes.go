package message

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the message history API and the WebSocket endpoint.
// Clients connect to the server root with a userId query parameter.
func (s *MessageService) SetupRoutes(app *fiber.App) {
	app.Get("/api/messages", s.GetMessages)
	app.Get("/", s.HandleWebSocket)
}
