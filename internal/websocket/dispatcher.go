package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/huslr-app/huslr-api/internal/models"
)

// persistTimeout bounds the per-message persist, matching the standard
// query timeout used everywhere else. A stalled write must not block the
// connection's read loop indefinitely.
const persistTimeout = 5 * time.Second

// Store persists one inbound message and returns its canonical shape: the
// stored row with a server-assigned id and timestamp, joined with the
// sender's display name. Sender and receiver see byte-identical payloads.
type Store interface {
	SaveMessage(ctx context.Context, senderID, receiverID, listingID int64, content string) (models.Message, error)
}

// InboundMessage is the wire schema for frames sent by clients. Client
// timestamps are never accepted; the server assigns them on persist.
type InboundMessage struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	ListingID  int64  `json:"listing_id"`
	Content    string `json:"content"`
}

var errIncomplete = errors.New("missing required field")

func (m InboundMessage) validate() error {
	if m.SenderID == 0 || m.ReceiverID == 0 || m.ListingID == 0 || m.Content == "" {
		return errIncomplete
	}
	return nil
}

// Dispatcher turns one inbound frame into a durable record and
// zero-or-more outbound deliveries.
type Dispatcher struct {
	store    Store
	registry *Manager
}

// NewDispatcher wires the dispatcher to the registry and the message store.
func NewDispatcher(store Store, registry *Manager) *Dispatcher {
	return &Dispatcher{store: store, registry: registry}
}

// HandleIncoming processes a single frame from sender. Failures are fatal to
// this message only: they are logged and dropped, the connection stays open.
//
// The persisted canonical payload is delivered to the receiver's registered
// channel when one is present and ready, and always echoed back to the
// sender. The echo is the sender's sole send confirmation and carries the
// server-assigned id the client dedupes on. There is no offline queue: an
// offline receiver sees the message on its next history fetch.
func (d *Dispatcher) HandleIncoming(ctx context.Context, sender Channel, raw []byte) {
	var in InboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		log.Printf("websocket: dropping malformed frame: %v", err)
		return
	}
	if err := in.validate(); err != nil {
		log.Printf("websocket: dropping incomplete frame: %v", err)
		return
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	msg, err := d.store.SaveMessage(persistCtx, in.SenderID, in.ReceiverID, in.ListingID, in.Content)
	cancel()
	if err != nil {
		log.Printf("websocket: persisting message failed: %v", err)
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("websocket: marshaling message %d failed: %v", msg.ID, err)
		return
	}

	if ch, ok := d.registry.Lookup(in.ReceiverID); ok {
		if !ch.Deliver(payload) {
			log.Printf("websocket: receiver %d channel not ready, skipping delivery", in.ReceiverID)
		}
	}

	if !sender.Deliver(payload) {
		log.Printf("websocket: echo to sender %d failed", in.SenderID)
	}
}
