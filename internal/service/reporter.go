package service

import (
	"context"
	"log/slog"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/adapter/pubsub"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
)

// MissedCallService reports expired invitations to the application backend,
// which persists them as missed_call notifications. The bus is the primary
// path; the HTTP API is the fallback when the hub runs without a broker.
// Failures are logged and swallowed: losing a missed-call record must never
// take down signaling.
type MissedCallService struct {
	dispatcher pubsub.EventDispatcher // nil when AMQP is disabled
	api        *appapi.Client
	logger     *slog.Logger
}

func NewMissedCallService(dispatcher pubsub.EventDispatcher, api *appapi.Client, logger *slog.Logger) *MissedCallService {
	return &MissedCallService{
		dispatcher: dispatcher,
		api:        api,
		logger:     logger,
	}
}

func (s *MissedCallService) ReportMissedCall(ctx context.Context, ev *event.MissedCallV1Event) {
	if s.dispatcher != nil {
		err := s.dispatcher.Publish(ctx, ev)
		if err == nil {
			return
		}
		s.logger.Error("missed-call publish failed, falling back to api",
			slog.String("invitation_id", ev.InvitationID.String()),
			slog.Any("err", err),
		)
	}

	if err := s.api.CreateMissedCall(ctx, ev); err != nil {
		s.logger.Error("missed-call report dropped",
			slog.String("invitation_id", ev.InvitationID.String()),
			slog.Any("err", err),
		)
	}
}
