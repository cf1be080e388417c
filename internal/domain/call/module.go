package call

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

var Module = fx.Module("call",
	fx.Provide(
		func(cfg *config.Config, hub registry.Hubber, reporter MissedCallReporter, logger *slog.Logger) *Signaler {
			return NewSignaler(hub, reporter, logger,
				WithRingTimeout(cfg.Call.RingTimeout),
				WithRoomBaseURL(cfg.Call.RoomBaseURL),
			)
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, s *Signaler) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				s.Shutdown()
				return nil
			},
		})
	}),
)
