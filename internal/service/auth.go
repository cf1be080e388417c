package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// ErrUnauthenticated rejects a registration whose identity the application
// backend would not vouch for. The connection is never added to the
// registry; the transport layer surfaces this as a protocol rejection.
var ErrUnauthenticated = errors.New("service: identity is not authenticated")

// Auther validates that a claimed identity belongs to an authenticated
// session. The check itself lives in the application backend.
type Auther interface {
	Inspect(ctx context.Context, userID uuid.UUID, credential string) (*model.AuthSession, error)
}

type AuthService struct {
	api    *appapi.Client
	logger *slog.Logger
}

func NewAuthService(api *appapi.Client, logger *slog.Logger) *AuthService {
	return &AuthService{
		api:    api,
		logger: logger,
	}
}

func (s *AuthService) Inspect(ctx context.Context, userID uuid.UUID, credential string) (*model.AuthSession, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.api.Inspect(ctx, credential)
	if err != nil {
		if errors.Is(err, appapi.ErrUnauthorized) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth inspect: %w", err)
	}

	// The credential must belong to the identity the client claims;
	// otherwise any valid session could register as anyone.
	if session.UserID != userID {
		s.logger.Warn("registration identity mismatch",
			slog.String("claimed", userID.String()),
			slog.String("session", session.UserID.String()),
		)
		return nil, ErrUnauthenticated
	}

	return session, nil
}
