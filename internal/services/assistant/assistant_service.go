package assistant

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/huslr-app/huslr-api/internal/config"
)

// Chatter answers help questions in the marketplace persona.
type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

// AssistantService fronts the AI help assistant.
type AssistantService struct {
	cfg     *config.Config
	chatter Chatter
}

// NewAssistantService creates a new AssistantService instance.
func NewAssistantService(cfg *config.Config, chatter Chatter) *AssistantService {
	return &AssistantService{cfg: cfg, chatter: chatter}
}

// Chat relays one help question to the assistant.
func (s *AssistantService) Chat(c fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind().Body(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	reply, err := s.chatter.Chat(c.Context(), req.Message)
	if err != nil {
		log.Printf("assistant chat failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Assistant is unavailable right now"})
	}

	return c.JSON(fiber.Map{"reply": reply})
}
