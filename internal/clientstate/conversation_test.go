package clientstate

import (
	"testing"
	"time"

	"github.com/huslr-app/huslr-api/internal/models"
)

func msg(id, listingID int64, content string) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   5,
		ReceiverID: 7,
		ListingID:  listingID,
		Content:    content,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConversationAppliesPushedMessage(t *testing.T) {
	c := NewConversation(3, nil)
	if !c.Apply(msg(1, 3, "hi")) {
		t.Fatalf("expected message for the open listing to be appended")
	}
	if len(c.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(c.Messages))
	}
}

func TestConversationMergeIsIdempotent(t *testing.T) {
	c := NewConversation(3, []models.Message{msg(1, 3, "hi")})

	// The sender's echo and a redelivered push carry the same server id.
	if c.Apply(msg(1, 3, "hi")) {
		t.Fatalf("duplicate id must not be appended")
	}
	if c.Apply(msg(1, 3, "hi")) {
		t.Fatalf("second redelivery must not be appended either")
	}
	if len(c.Messages) != 1 {
		t.Fatalf("expected 1 message after redeliveries, got %d", len(c.Messages))
	}
}

func TestConversationDropsOtherListings(t *testing.T) {
	c := NewConversation(3, nil)
	if c.Apply(msg(2, 9, "other conversation")) {
		t.Fatalf("message for another listing must be dropped")
	}
	if len(c.Messages) != 0 {
		t.Fatalf("expected empty conversation, got %d messages", len(c.Messages))
	}
}

func TestConversationBootstrapDeduplicates(t *testing.T) {
	history := []models.Message{msg(1, 3, "hi"), msg(1, 3, "hi"), msg(2, 3, "there")}
	c := NewConversation(3, history)
	if len(c.Messages) != 2 {
		t.Fatalf("expected deduplicated bootstrap of 2 messages, got %d", len(c.Messages))
	}
}
