package transaction

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/huslr-app/huslr-api/internal/config"
	"github.com/huslr-app/huslr-api/internal/db"
	"github.com/huslr-app/huslr-api/internal/models"
)

// TransactionService records engagements and serves the buyer's history.
type TransactionService struct {
	cfg *config.Config
}

// NewTransactionService creates a new TransactionService instance.
func NewTransactionService(cfg *config.Config) *TransactionService {
	return &TransactionService{cfg: cfg}
}

// CreateTransactionRequest is the engagement payload.
type CreateTransactionRequest struct {
	ListingID int64   `json:"listing_id"`
	BuyerID   int64   `json:"buyer_id"`
	Amount    float64 `json:"amount"`
	Duration  string  `json:"duration"`
	DueDate   string  `json:"due_date"`
}

// Validate checks the request's required fields.
func (r CreateTransactionRequest) Validate() error {
	if r.ListingID == 0 {
		return errors.New("listing_id is required")
	}
	if r.BuyerID == 0 {
		return errors.New("buyer_id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// Fee returns the marketplace cut for an engagement amount.
func Fee(amount float64) float64 {
	return amount * db.CommissionRate
}

// CreateTransaction appends one ledger row. Presence of a row means
// "engaged"; there is no status field and no exclusivity, so two buyers
// engaging the same listing concurrently produce two independent rows.
func (s *TransactionService) CreateTransaction(c fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var id int64
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO transactions (listing_id, buyer_id, amount, fee, duration, due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, req.ListingID, req.BuyerID, req.Amount, Fee(req.Amount), req.Duration, req.DueDate).Scan(&id)
	if err != nil {
		log.Printf("inserting transaction: %v", err)
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"id": id})
}

// GetMyStuff returns the buyer's transactions joined with the listing and
// its owner, newest first.
func (s *TransactionService) GetMyStuff(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT t.id, t.listing_id, t.buyer_id, COALESCE(t.amount, 0), COALESCE(t.fee, 0),
               COALESCE(t.duration, ''), COALESCE(t.due_date, ''), t.created_at,
               l.title, l.type, COALESCE(l.image_url, ''), u.name
        FROM transactions t
        JOIN listings l ON t.listing_id = l.id
        JOIN users u ON l.user_id = u.id
        WHERE t.buyer_id = $1
        ORDER BY t.created_at DESC
    `, userID)
	if err != nil {
		log.Printf("querying transactions: %v", err)
		return fiber.ErrInternalServerError
	}
	defer rows.Close()

	stuff := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.ListingID, &t.BuyerID, &t.Amount, &t.Fee, &t.Duration,
			&t.DueDate, &t.CreatedAt, &t.Title, &t.Type, &t.ImageURL, &t.OwnerName); err != nil {
			log.Printf("scanning transaction row: %v", err)
			continue
		}
		stuff = append(stuff, t)
	}

	return c.JSON(stuff)
}
