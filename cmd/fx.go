package cmd

import (
	"go.uber.org/fx"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/server/httpsrv"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/call"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	amqpdi "github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/amqp"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

func NewApp(cfg *config.Config) *fx.App {
	opts := []fx.Option{
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideWatermillLogger,
		),
		appapi.Module,
		registry.Module,
		service.Module,
		call.Module,
		httpsrv.Module,
	}

	// Without a broker the hub still works: pushes arrive on the internal
	// HTTP endpoint and missed calls fall back to the backend API.
	if cfg.AMQP.Enabled {
		opts = append(opts, amqpdi.Module)
	}

	return fx.New(opts...)
}
