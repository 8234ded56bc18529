package models

import "time"

// User is an account row. Users are never deleted; a ban is irreversible.
type User struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	IsBanned   bool    `json:"is_banned"`
	IsVerified bool    `json:"is_verified"`
	Balance    float64 `json:"balance"`
}

// Listing is a published task-service or item-rental offer. CommissionPaid
// is fixed at creation time (price × 0.05) and never recomputed.
type Listing struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Type           string  `json:"type"` // task, rental
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	CommissionPaid float64 `json:"commission_paid"`
	ImageURL       string  `json:"image_url,omitempty"`

	// Joined field for API responses
	OwnerName string `json:"owner_name,omitempty"`
}

// Transaction records an engagement: a buyer committing to a listing.
// Append-only ledger, presence of a row means "engaged".
type Transaction struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	BuyerID   int64     `json:"buyer_id"`
	Amount    float64   `json:"amount"`
	Fee       float64   `json:"fee"`
	Duration  string    `json:"duration"`
	DueDate   string    `json:"due_date"`
	CreatedAt time.Time `json:"timestamp"`

	// Joined fields for API responses
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}

// Message is one chat message scoped to a listing. The id and timestamp are
// always server-assigned; clients dedupe on ID.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	ListingID  int64     `json:"listing_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"timestamp"`

	// Joined field for API responses
	SenderName string `json:"sender_name,omitempty"`
}
