package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/huslr-app/huslr-api/internal/models"
)

type fakeStore struct {
	saved       []models.Message
	nextID      int64
	err         error
	sawDeadline bool
}

func (f *fakeStore) SaveMessage(ctx context.Context, senderID, receiverID, listingID int64, content string) (models.Message, error) {
	_, f.sawDeadline = ctx.Deadline()
	if f.err != nil {
		return models.Message{}, f.err
	}
	f.nextID++
	msg := models.Message{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Content:    content,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SenderName: "Demo User",
	}
	f.saved = append(f.saved, msg)
	return msg, nil
}

func decodeFrame(t *testing.T, raw []byte) models.Message {
	t.Helper()
	var msg models.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decoding delivered frame: %v", err)
	}
	return msg
}

func TestDispatcherFanOutWhenReceiverOnline(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)

	sender := newFakeChannel()
	receiver := newFakeChannel()
	registry.Register(5, uuid.New(), sender)
	registry.Register(7, uuid.New(), receiver)

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"hi"}`))

	if len(receiver.delivered) != 1 {
		t.Fatalf("expected 1 frame for receiver, got %d", len(receiver.delivered))
	}
	if len(sender.delivered) != 1 {
		t.Fatalf("expected 1 echo frame for sender, got %d", len(sender.delivered))
	}

	got := decodeFrame(t, receiver.delivered[0])
	echo := decodeFrame(t, sender.delivered[0])
	if got.Content != "hi" || got.ID == 0 {
		t.Fatalf("receiver frame missing content or server-assigned id: %+v", got)
	}
	if echo.ID != got.ID {
		t.Fatalf("echo id %d differs from delivered id %d", echo.ID, got.ID)
	}
	if string(sender.delivered[0]) != string(receiver.delivered[0]) {
		t.Fatalf("sender and receiver must see byte-identical payloads")
	}
}

func TestDispatcherEchoWhenReceiverOffline(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)

	sender := newFakeChannel()
	registry.Register(5, uuid.New(), sender)

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"hi"}`))

	if len(store.saved) != 1 {
		t.Fatalf("message must be persisted even when the receiver is offline")
	}
	if len(sender.delivered) != 1 {
		t.Fatalf("sender must still get the echo, got %d frames", len(sender.delivered))
	}
}

func TestDispatcherDropsMalformedFrame(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)
	sender := newFakeChannel()

	d.HandleIncoming(context.Background(), sender, []byte(`not json`))

	if len(store.saved) != 0 {
		t.Fatalf("malformed frame must not be persisted")
	}
	if len(sender.delivered) != 0 {
		t.Fatalf("malformed frame must not produce an echo")
	}
}

func TestDispatcherDropsIncompleteFrame(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)
	sender := newFakeChannel()

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"content":"hi"}`))

	if len(store.saved) != 0 {
		t.Fatalf("incomplete frame must not be persisted")
	}
	if len(sender.delivered) != 0 {
		t.Fatalf("incomplete frame must not produce an echo")
	}
}

func TestDispatcherNoDeliveryOnStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("boom")}
	registry := NewManager()
	d := NewDispatcher(store, registry)

	sender := newFakeChannel()
	receiver := newFakeChannel()
	registry.Register(7, uuid.New(), receiver)

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"hi"}`))

	if len(receiver.delivered) != 0 || len(sender.delivered) != 0 {
		t.Fatalf("a failed persist must not produce deliveries")
	}
}

func TestDispatcherSkipsNotReadyReceiver(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)

	sender := newFakeChannel()
	receiver := &fakeChannel{ready: false}
	registry.Register(7, uuid.New(), receiver)

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"hi"}`))

	if len(receiver.delivered) != 0 {
		t.Fatalf("not-ready receiver must be skipped")
	}
	if len(sender.delivered) != 1 {
		t.Fatalf("echo must not depend on receiver readiness")
	}
}

func TestDispatcherBoundsPersistWithDeadline(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)
	sender := newFakeChannel()

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"hi"}`))

	if !store.sawDeadline {
		t.Fatalf("persist must run under a deadline so a stalled write cannot block the read loop")
	}
}

func TestDispatcherDeliveryAfterClose(t *testing.T) {
	store := &fakeStore{}
	registry := NewManager()
	d := NewDispatcher(store, registry)

	sender := newFakeChannel()
	receiver := newFakeChannel()
	connID := uuid.New()
	registry.Register(7, connID, receiver)
	registry.Unregister(7, connID)

	d.HandleIncoming(context.Background(), sender, []byte(`{"sender_id":5,"receiver_id":7,"listing_id":3,"content":"later"}`))

	if len(receiver.delivered) != 0 {
		t.Fatalf("closed receiver must not get real-time delivery")
	}
	if len(store.saved) != 1 {
		t.Fatalf("message must still be persisted for the next history fetch")
	}
}
