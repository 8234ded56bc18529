package clientstate

import (
	"github.com/huslr-app/huslr-api/internal/models"
)

// Conversation is the client-held state of one open chat panel. It is
// bootstrapped from a history fetch; the socket stream then appends to it.
// The merge is idempotent: the server echoes every sent message back, and a
// redelivered frame must not duplicate the displayed conversation, so each
// server-assigned id is applied at most once.
type Conversation struct {
	ListingID int64
	Messages  []models.Message
	seen      map[int64]bool
}

// NewConversation bootstraps the panel from a history fetch, deduplicating
// on message id.
func NewConversation(listingID int64, history []models.Message) *Conversation {
	c := &Conversation{
		ListingID: listingID,
		seen:      make(map[int64]bool),
	}
	for _, msg := range history {
		c.Apply(msg)
	}
	return c
}

// Apply merges one pushed message and reports whether it was appended.
// Messages for other listings are dropped: the panel shows a single
// conversation, there is no unread multiplexing.
func (c *Conversation) Apply(msg models.Message) bool {
	if msg.ListingID != c.ListingID {
		return false
	}
	if c.seen[msg.ID] {
		return false
	}
	c.seen[msg.ID] = true
	c.Messages = append(c.Messages, msg)
	return true
}
