package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

type routedHub struct {
	reached   int
	delivered []event.Eventer
}

func (f *routedHub) Register(registry.Connector)  {}
func (f *routedHub) Unregister(_, _ uuid.UUID)    {}
func (f *routedHub) Shutdown()                    {}
func (f *routedHub) Stats() model.HubStats        { return model.HubStats{} }
func (f *routedHub) Lookup(uuid.UUID) []uuid.UUID { return nil }
func (f *routedHub) IsConnected(uuid.UUID) bool   { return f.reached > 0 }

func (f *routedHub) Deliver(ev event.Eventer) registry.DeliveryOutcome {
	f.delivered = append(f.delivered, ev)
	return registry.DeliveryOutcome{Reached: f.reached}
}

type staticEnricher struct {
	profiles map[uuid.UUID]model.Profile
	calls    int
}

func (s *staticEnricher) ResolveProfile(_ context.Context, userID uuid.UUID) (model.Profile, error) {
	s.calls++
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return model.NewProfile(userID), nil
}

func (s *staticEnricher) ResolveProfiles(ctx context.Context, a, b uuid.UUID) (model.Profile, model.Profile, error) {
	pa, _ := s.ResolveProfile(ctx, a)
	pb, _ := s.ResolveProfile(ctx, b)
	return pa, pb, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPushEnrichesBareSender(t *testing.T) {
	sender := uuid.New()
	hub := &routedHub{reached: 1}
	enricher := &staticEnricher{profiles: map[uuid.UUID]model.Profile{
		sender: {ID: sender, Username: "alice", DisplayName: "Alice"},
	}}
	bridge := service.NewNotificationBridge(hub, enricher, nil, discardLogger())

	n := &model.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Kind:   model.NotificationLike,
		Sender: model.NewProfile(sender),
	}

	outcome := bridge.Push(context.Background(), n)

	assert.True(t, outcome.Delivered())
	assert.Equal(t, "Alice", n.Sender.DisplayName)

	require.Len(t, hub.delivered, 1)
	assert.Equal(t, event.Notification, hub.delivered[0].GetKind())
	assert.Equal(t, n.UserID, hub.delivered[0].GetUserID())
}

func TestPushKeepsAlreadyEnrichedSender(t *testing.T) {
	hub := &routedHub{reached: 1}
	enricher := &staticEnricher{}
	bridge := service.NewNotificationBridge(hub, enricher, nil, discardLogger())

	n := &model.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Kind:   model.NotificationComment,
		Sender: model.Profile{ID: uuid.New(), DisplayName: "Prefilled"},
	}

	bridge.Push(context.Background(), n)

	assert.Zero(t, enricher.calls, "an enriched sender must not trigger a lookup")
	assert.Equal(t, "Prefilled", n.Sender.DisplayName)
}

func TestPushToOfflineUserIsNotAFailure(t *testing.T) {
	hub := &routedHub{reached: 0}
	bridge := service.NewNotificationBridge(hub, &staticEnricher{}, nil, discardLogger())

	outcome := bridge.Push(context.Background(), &model.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Kind:   model.NotificationConnectionRequest,
	})

	assert.True(t, outcome.Unreachable())
	// Exactly one attempt: the durable record is the retry path.
	assert.Len(t, hub.delivered, 1)
}

func TestMissedCallNotificationRanksHigh(t *testing.T) {
	hub := &routedHub{reached: 1}
	bridge := service.NewNotificationBridge(hub, &staticEnricher{}, nil, discardLogger())

	bridge.Push(context.Background(), &model.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Kind:   model.NotificationMissedCall,
	})
	bridge.Push(context.Background(), &model.Notification{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Kind:   model.NotificationLike,
	})

	require.Len(t, hub.delivered, 2)
	assert.Equal(t, event.PriorityHigh, hub.delivered[0].GetPriority())
	assert.Equal(t, event.PriorityNormal, hub.delivered[1].GetPriority())
}
