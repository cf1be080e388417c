package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// enricherMiddleware adds observability around profile resolution without
// touching the business logic.
type enricherMiddleware struct {
	next   Enricher
	logger *slog.Logger
}

func (m *enricherMiddleware) ResolveProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	start := time.Now()

	res, err := m.next.ResolveProfile(ctx, userID)
	if err != nil {
		m.logger.Warn("profile enrichment degraded",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	return res, err
}

func (m *enricherMiddleware) ResolveProfiles(ctx context.Context, a, b uuid.UUID) (model.Profile, model.Profile, error) {
	start := time.Now()

	resA, resB, err := m.next.ResolveProfiles(ctx, a, b)

	if err != nil {
		m.logger.Warn("profile pair enrichment degraded",
			slog.Any("err", err),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	} else {
		m.logger.Debug("profile pair enrichment completed",
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	return resA, resB, err
}
