// Package appapi is the hub's client to the social application backend: the
// external collaborator that owns authentication, user profiles and the
// durable notification log.
package appapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// ErrUnauthorized marks a credential the backend rejected, as opposed to
// the backend being down.
var ErrUnauthorized = errors.New("appapi: credential rejected")

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.AppAPI.BaseURL,
		token:   cfg.AppAPI.Token,
		http:    &http.Client{Timeout: cfg.AppAPI.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "app-api",
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A rejected credential is the backend answering, not failing.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrUnauthorized)
			},
		}),
	}
}

// Close releases pooled connections on shutdown.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Inspect validates a client-supplied session credential.
func (c *Client) Inspect(ctx context.Context, credential string) (*model.AuthSession, error) {
	var res struct {
		UserID    uuid.UUID `json:"user_id"`
		Username  string    `json:"username"`
		ExpiresAt int64     `json:"expires_at"`
	}
	err := c.call(ctx, http.MethodPost, "/api/v1/auth/inspect",
		map[string]string{"credential": credential}, &res)
	if err != nil {
		return nil, err
	}
	return &model.AuthSession{
		UserID:    res.UserID,
		Username:  res.Username,
		ExpiresAt: res.ExpiresAt,
	}, nil
}

// FetchProfile resolves the display identity of a user.
func (c *Client) FetchProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var res model.Profile
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/profile", userID), nil, &res)
	if err != nil {
		return model.NewProfile(userID), err
	}
	return res, nil
}

// ListNotifications is the reconnect-recovery query: everything the user
// missed while offline, straight from the durable store.
func (c *Client) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	path := fmt.Sprintf("/api/v1/users/%s/notifications", userID)
	if unreadOnly {
		path += "?unread=true"
	}
	var res struct {
		Notifications []model.Notification `json:"notifications"`
	}
	if err := c.call(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Notifications, nil
}

// MarkNotificationRead acknowledges one notification in the durable store.
// The path is scoped to the owner so the backend can reject acknowledgements
// for notifications that belong to somebody else.
func (c *Client) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return c.call(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/notifications/%s/read", userID, notificationID), nil, nil)
}

// CreateMissedCall asks the backend to persist a missed_call notification.
// Fallback path for deployments running without the message bus.
func (c *Client) CreateMissedCall(ctx context.Context, ev *event.MissedCallV1Event) error {
	return c.call(ctx, http.MethodPost, "/api/v1/calls/missed", ev, nil)
}

// call runs one JSON round-trip through the circuit breaker.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		var reqBody io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("appapi: marshal request: %w", err)
			}
			reqBody = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("appapi: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("appapi: %s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, ErrUnauthorized
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("appapi: %s %s: unexpected status %d", method, path, resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("appapi: decode response: %w", err)
			}
		}
		return nil, nil
	})
	return err
}
