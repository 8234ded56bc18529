package message

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"github.com/huslr-app/huslr-api/internal/config"
	"github.com/huslr-app/huslr-api/internal/db"
	"github.com/huslr-app/huslr-api/internal/models"
	ws "github.com/huslr-app/huslr-api/internal/websocket"
)

// Store persists chat messages and produces their canonical payload shape.
type Store struct{}

// NewStore creates the message store.
func NewStore() *Store {
	return &Store{}
}

// SaveMessage inserts a row with a server-assigned id and timestamp, then
// reloads it joined with the sender's display name. The reloaded row is the
// canonical payload broadcast to both parties.
func (s *Store) SaveMessage(ctx context.Context, senderID, receiverID, listingID int64, content string) (models.Message, error) {
	var id int64
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO messages (sender_id, receiver_id, listing_id, content)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, senderID, receiverID, listingID, content).Scan(&id)
	if err != nil {
		return models.Message{}, fmt.Errorf("inserting message: %w", err)
	}

	var msg models.Message
	err = db.Pool.QueryRow(ctx, `
        SELECT m.id, m.sender_id, m.receiver_id, m.listing_id, m.content, m.created_at, u.name
        FROM messages m
        JOIN users u ON m.sender_id = u.id
        WHERE m.id = $1
    `, id).Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.ListingID, &msg.Content, &msg.CreatedAt, &msg.SenderName)
	if err != nil {
		return models.Message{}, fmt.Errorf("reloading message %d: %w", id, err)
	}
	return msg, nil
}

// MessageService serves conversation history and the WebSocket endpoint.
type MessageService struct {
	cfg        *config.Config
	registry   *ws.Manager
	dispatcher *ws.Dispatcher
}

// NewMessageService creates a new MessageService instance.
func NewMessageService(cfg *config.Config, registry *ws.Manager, dispatcher *ws.Dispatcher) *MessageService {
	return &MessageService{cfg: cfg, registry: registry, dispatcher: dispatcher}
}

// orderPair returns the two participant ids in canonical order. A
// conversation is keyed by an unordered pair, so querying it as (A,B) or
// (B,A) must hit the same rows.
func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetMessages returns the conversation for one listing and one unordered
// pair of participants, ordered by creation time ascending. This is the
// bootstrap for a freshly opened chat panel; the socket stream appends to it.
func (s *MessageService) GetMessages(c fiber.Ctx) error {
	listingID, err1 := strconv.ParseInt(c.Query("listing_id"), 10, 64)
	user1ID, err2 := strconv.ParseInt(c.Query("user1_id"), 10, 64)
	user2ID, err3 := strconv.ParseInt(c.Query("user2_id"), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing parameters"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	lo, hi := orderPair(user1ID, user2ID)
	rows, err := db.Pool.Query(ctx, `
        SELECT m.id, m.sender_id, m.receiver_id, m.listing_id, m.content, m.created_at, u.name
        FROM messages m
        JOIN users u ON m.sender_id = u.id
        WHERE m.listing_id = $1
          AND LEAST(m.sender_id, m.receiver_id) = $2
          AND GREATEST(m.sender_id, m.receiver_id) = $3
        ORDER BY m.created_at ASC, m.id ASC
    `, listingID, lo, hi)
	if err != nil {
		log.Printf("querying messages: %v", err)
		return fiber.ErrInternalServerError
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.ListingID, &msg.Content, &msg.CreatedAt, &msg.SenderName); err != nil {
			log.Printf("scanning message row: %v", err)
			continue
		}
		messages = append(messages, msg)
	}

	return c.JSON(messages)
}

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and serves it until close. The
// user id comes from the handshake query string; a missing or unparsable id
// leaves the connection unregistered (echo only, never a delivery target).
func (s *MessageService) HandleWebSocket(c fiber.Ctx) error {
	userID, _ := strconv.ParseInt(c.Query("userId"), 10, 64)

	err := upgrader.Upgrade(c.RequestCtx(), func(conn *websocket.Conn) {
		client := ws.NewClient(userID, conn, s.registry, s.dispatcher)
		client.Run()
	})
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return fiber.ErrUpgradeRequired
	}
	return nil
}
