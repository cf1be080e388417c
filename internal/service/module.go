package service

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/adapter/pubsub"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/call"
)

// reporterParams makes the bus dispatcher optional: the hub degrades to the
// HTTP fallback when AMQP is disabled.
type reporterParams struct {
	fx.In

	Dispatcher pubsub.EventDispatcher `optional:"true"`
	API        *appapi.Client
	Logger     *slog.Logger
}

var Module = fx.Module(
	"service",

	fx.Provide(
		// Domain services
		fx.Annotate(
			NewDeliveryService,
			fx.As(new(Deliverer)),
		),
		fx.Annotate(
			NewAuthService,
			fx.As(new(Auther)),
		),
		fx.Annotate(
			NewProfileEnricher,
			fx.As(new(Enricher)),
		),
		fx.Annotate(
			NewNotificationBridge,
			fx.As(new(Notifier)),
		),
		func(p reporterParams) *MissedCallService {
			return NewMissedCallService(p.Dispatcher, p.API, p.Logger)
		},
		func(s *MissedCallService) call.MissedCallReporter { return s },
	),

	// Intercept the enricher to add cross-cutting observability.
	fx.Decorate(func(orig Enricher, logger *slog.Logger) Enricher {
		return &enricherMiddleware{
			next:   orig,
			logger: logger,
		}
	}),
)
