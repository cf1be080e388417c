package amqp

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"

	pubsubadapter "github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/adapter/pubsub"
)

var Module = fx.Module("amqp-handler",
	fx.Provide(

		pubsubadapter.NewPublisherProvider,
		pubsubadapter.NewSubscriberProvider,

		// All hub-originated records (missed calls, receipts) leave
		// through one exchange.
		func(pp *pubsubadapter.PublisherProvider) (pubsubadapter.EventDispatcher, error) {
			pub, err := pp.Build(DeliveryEventsExchange)
			if err != nil {
				return nil, err
			}
			return pubsubadapter.NewEventDispatcher(pub), nil
		},

		NewNotificationHandler,
		NewWatermillRouter,
	),

	fx.Invoke(func(lc fx.Lifecycle, h *NotificationHandler, router *message.Router, subProvider *pubsubadapter.SubscriberProvider) error {
		if err := h.RegisterHandlers(router, subProvider); err != nil {
			return err
		}

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					if err := router.Run(context.Background()); err != nil {
						h.logger.Error("amqp router stopped", "err", err)
					}
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				return router.Close()
			},
		})
		return nil
	}),
)
