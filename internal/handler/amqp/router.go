package amqp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/adapter/pubsub"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

const (
	// ------------------- EXCHANGES (SOURCES) -------------------
	NotificationEventsExchange = "social_notification.events"

	// The hub's own outbound records (missed calls, delivery receipts).
	DeliveryEventsExchange = "social_delivery.events"

	// ------------------- TOPICS (ROUTING KEYS) -----------------
	TopicNotificationCreated = "social.notification.#.created.v1"

	// ------------------- QUEUES (CONSUMERS) --------------------
	LivePushQueue   = "presence-hub.live-push.v1"
	LivePushPoison  = "presence-hub.live-push.v1.poison"
)

type NotificationHandler struct {
	hub        registry.Hubber
	logger     *slog.Logger
	notifier   service.Notifier
	dispatcher pubsub.EventDispatcher
}

func NewNotificationHandler(hub registry.Hubber, logger *slog.Logger, notifier service.Notifier, dispatcher pubsub.EventDispatcher) *NotificationHandler {
	return &NotificationHandler{hub, logger, notifier, dispatcher}
}

func NewWatermillRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	return message.NewRouter(message.RouterConfig{}, logger)
}

// RegisterHandlers wires each consumed topic to its own uniquely-named
// queue on this node, so every hub instance sees every record and the
// locality filter in Bind decides who pushes it.
func (h *NotificationHandler) RegisterHandlers(router *message.Router, subProvider *pubsub.SubscriberProvider) error {
	poison, err := middleware.PoisonQueue(h.dispatcher.Publisher(), LivePushPoison)
	if err != nil {
		return fmt.Errorf("poison queue setup: %w", err)
	}

	configs := []struct {
		name     string
		exchange string
		topic    string
		handler  message.NoPublishHandlerFunc
	}{
		{"ON_NOTIFICATION_CREATED", NotificationEventsExchange, TopicNotificationCreated, Bind(h, h.OnNotificationCreatedV1)},
	}

	for _, c := range configs {
		instanceID := uuid.NewString()[:8]
		// One queue per handler per node, e.g.
		// presence-hub.live-push.v1.b23a8f12.ON_NOTIFICATION_CREATED
		handlerQueue := fmt.Sprintf("%s.%s.%s", LivePushQueue, instanceID, c.name)

		sub, err := subProvider.Build(handlerQueue, c.exchange, c.topic)
		if err != nil {
			return err
		}

		router.AddNoPublisherHandler(c.name, c.topic, sub, c.handler).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			NewRetryMiddleware().Middleware,
			poison,
			middleware.NewThrottle(100, time.Second).Middleware,
			middleware.Timeout(time.Second*30),
		)
	}

	h.logger.Info("amqp pipeline ready", slog.String("queue", LivePushQueue))
	return nil
}
