package httpsrv

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/lp"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/ws"
)

var Module = fx.Module("http-server",
	fx.Provide(
		ws.NewWSHandler,
		lp.NewLPHandler,
		NewAPI,
		NewRouter,
	),

	fx.Invoke(func(lc fx.Lifecycle, mux *chi.Mux, cfg *config.Config, logger *slog.Logger) {
		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: mux,
		}

		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go func() {
					logger.Info("http server listening", slog.String("addr", srv.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("http server stopped", "err", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			},
		})
	}),
)
