package appapi

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("appapi-client",
	fx.Provide(New),

	fx.Invoke(func(lc fx.Lifecycle, client *Client) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
	}),
)
