package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
)

// DomainHandler is the functional signature for business logic. A non-nil
// result is re-published to the bus for the backend to consume.
type DomainHandler[T any] func(ctx context.Context, userID uuid.UUID, payload *T) (event.Exportable, error)

// Bind connects watermill to domain logic, handling panic recovery,
// locality filtering and decoding.
func Bind[T any](h *NotificationHandler, fn DomainHandler[T]) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		// Keep the consumer alive through runtime panics in handlers.
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("amqp handler panic recovered",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID)
			}
		}()

		// Extract the recipient UUID from the routing key for routing
		// decisions.
		userID, ok := resolveUserID(msg)
		if !ok {
			h.logger.Warn("amqp routing failed: recipient missing", "msg_id", msg.UUID)
			return nil // ACK: invalid routing is a terminal state.
		}

		// Locality filter: push only if the target user is connected to
		// THIS node. Another instance (or nobody) handles the rest; the
		// durable store covers offline users either way.
		if !h.hub.IsConnected(userID) {
			return nil // ACK
		}

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.Error("amqp decode failed", "err", err, "msg_id", msg.UUID)
			return nil // ACK: poison-pill protection.
		}

		ev, err := fn(msg.Context(), userID, payload)
		if err != nil {
			return err // NACK: business failure triggers the retry policy.
		}

		if ev == nil {
			return nil
		}

		if err := h.dispatcher.Publish(msg.Context(), ev); err != nil {
			return fmt.Errorf("outbound dispatch failed: %w", err)
		}

		return nil
	}
}

func resolveUserID(msg *message.Message) (uuid.UUID, bool) {
	rk := msg.Metadata.Get("x-routing-key")
	if rk == "" {
		rk = msg.Metadata.Get("routing_key")
	}

	for _, part := range strings.Split(rk, ".") {
		if uid, err := uuid.Parse(part); err == nil {
			return uid, true
		}
	}
	return uuid.Nil, false
}
