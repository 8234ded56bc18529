package assistant

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes registers the assistant API.
func (s *AssistantService) SetupRoutes(app *fiber.App) {
	app.Post("/api/assistant/chat", s.Chat)
}
