package user

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/huslr-app/huslr-api/internal/config"
	"github.com/huslr-app/huslr-api/internal/db"
	"github.com/huslr-app/huslr-api/internal/models"
	"github.com/huslr-app/huslr-api/internal/moderation"
)

// minConfidence is the provider confidence required to mark a user verified.
const minConfidence = 0.6

// Verifier judges whether an uploaded image is a government ID card.
type Verifier interface {
	VerifyIDImage(ctx context.Context, imageBase64 string) (moderation.IDCheck, error)
}

// UserService handles the demo identity, bans and verification.
type UserService struct {
	cfg      *config.Config
	verifier Verifier
}

// NewUserService creates a new UserService instance.
func NewUserService(cfg *config.Config, verifier Verifier) *UserService {
	return &UserService{cfg: cfg, verifier: verifier}
}

// GetMe returns the demo user: the first row. There is no session layer.
func (s *UserService) GetMe(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	var u models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name, email, is_banned, is_verified, balance
        FROM users
        ORDER BY id
        LIMIT 1
    `).Scan(&u.ID, &u.Name, &u.Email, &u.IsBanned, &u.IsVerified, &u.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No users"})
		}
		log.Printf("querying demo user: %v", err)
		return fiber.ErrInternalServerError
	}

	return c.JSON(u)
}

// BanUser marks an account banned. The ban is irreversible within the
// system's scope; there is no appeal flow.
func (s *UserService) BanUser(c fiber.Ctx) error {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.Bind().Body(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if _, err := db.Pool.Exec(ctx, "UPDATE users SET is_banned = TRUE WHERE id = $1", req.UserID); err != nil {
		log.Printf("banning user %d: %v", req.UserID, err)
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"success": true})
}

// VerifyUser runs the ID-image check and marks the user verified on a
// confident positive. Unlike listing moderation, a provider failure here
// fails closed: verification is denied, never granted by default.
func (s *UserService) VerifyUser(c fiber.Ctx) error {
	var req struct {
		UserID  int64  `json:"user_id"`
		IDImage string `json:"id_image"`
	}
	if err := c.Bind().Body(&req); err != nil || req.UserID == 0 || req.IDImage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id and id_image are required"})
	}

	check, err := s.verifier.VerifyIDImage(c.Context(), req.IDImage)
	if err != nil {
		log.Printf("ID verification for user %d failed: %v", req.UserID, err)
		check = moderation.IDCheck{}
	}

	verified := check.IsIDCard && check.Confidence >= minConfidence
	if verified {
		ctx, cancel := db.GetContext()
		defer cancel()
		if _, err := db.Pool.Exec(ctx, "UPDATE users SET is_verified = TRUE WHERE id = $1", req.UserID); err != nil {
			log.Printf("marking user %d verified: %v", req.UserID, err)
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"verified":   verified,
		"confidence": check.Confidence,
	})
}
