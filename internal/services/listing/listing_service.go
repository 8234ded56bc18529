package listing

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

// Moderator classifies listing content before publication.
type Moderator interface {
	Moderate(ctx context.Context, content string) (moderation.Verdict, error)
}

// ListingService handles browsing and publishing listings.
type ListingService struct {
	cfg       *config.Config
	moderator Moderator
}

// NewListingService creates a new ListingService instance.
func NewListingService(cfg *config.Config, moderator Moderator) *ListingService {
	return &ListingService{cfg: cfg, moderator: moderator}
}

// CreateListingRequest is the publish payload. Identity is a client-supplied
// field; there is no session layer.
type CreateListingRequest struct {
	UserID      int64   `json:"user_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// Validate checks the request's required fields.
func (r CreateListingRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user_id is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Type != "task" && r.Type != "rental" {
		return errors.New("type must be task or rental")
	}
	if r.Price <= 0 {
		return errors.New("price must be positive")
	}
	return nil
}

// Commission returns the marketplace cut for a listing price.
func Commission(price float64) float64 {
	return price * db.CommissionRate
}

// GetListings returns active listings whose owner is not banned, joined with
// the owner's display name.
func (s *ListingService) GetListings(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT l.id, l.user_id, l.type, l.title, COALESCE(l.description, ''), l.price,
               COALESCE(l.category, ''), l.status, COALESCE(l.commission_paid, 0),
               COALESCE(l.image_url, ''), u.name
        FROM listings l
        JOIN users u ON l.user_id = u.id
        WHERE l.status = 'active' AND u.is_banned = FALSE
        ORDER BY l.id
    `)
	if err != nil {
		log.Printf("querying listings: %v", err)
		return fiber.ErrInternalServerError
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.UserID, &l.Type, &l.Title, &l.Description, &l.Price,
			&l.Category, &l.Status, &l.CommissionPaid, &l.ImageURL, &l.OwnerName); err != nil {
			log.Printf("scanning listing row: %v", err)
			continue
		}
		listings = append(listings, l)
	}

	return c.JSON(listings)
}

// CreateListing publishes a listing. The content passes through the
// moderation gate first; a provider failure fails open so that an
// unavailable classifier never blocks publishing. An unsafe verdict with a
// bot/scam signal bans the poster before the rejection reason is surfaced.
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	var req CreateListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var banned bool
	err := db.Pool.QueryRow(ctx, "SELECT is_banned FROM users WHERE id = $1", req.UserID).Scan(&banned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("checking ban status for user %d: %v", req.UserID, err)
		return fiber.ErrInternalServerError
	}
	if banned {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "User is banned"})
	}

	verdict, allowed := moderationGate(c.Context(), s.moderator, req.Title+" "+req.Description, func() {
		if err := banUser(ctx, req.UserID); err != nil {
			log.Printf("banning user %d: %v", req.UserID, err)
		}
	})
	if !allowed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      verdict.Reason,
			"moderation": verdict,
		})
	}

	commission := Commission(req.Price)

	var id int64
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO listings (user_id, type, title, description, price, category, commission_paid, image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
        RETURNING id
    `, req.UserID, req.Type, req.Title, req.Description, req.Price, req.Category, commission, req.ImageURL).Scan(&id)
	if err != nil {
		log.Printf("inserting listing: %v", err)
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"id": id, "commission": commission})
}

// moderationGate decides whether content may be published. A provider
// failure fails open: an unavailable classifier never blocks publishing. An
// unsafe verdict rejects the content, and ban is invoked first when the
// verdict carries a bot/scam signal.
func moderationGate(ctx context.Context, m Moderator, content string, ban func()) (moderation.Verdict, bool) {
	verdict, err := m.Moderate(ctx, content)
	if err != nil {
		log.Printf("moderation unavailable, publishing without verdict: %v", err)
		return moderation.Verdict{Safe: true}, true
	}
	if verdict.Safe {
		return verdict, true
	}
	if moderation.ShouldBan(verdict) {
		ban()
	}
	return verdict, false
}

func banUser(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, "UPDATE users SET is_banned = TRUE WHERE id = $1", userID)
	return err
}
