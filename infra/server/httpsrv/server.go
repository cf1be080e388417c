// Package httpsrv exposes the hub's HTTP surface: the WebSocket and
// long-poll transports, the reconnect-recovery notification queries and the
// internal push endpoint the application backend may call directly when the
// broker path is disabled.
package httpsrv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/call"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/lp"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/ws"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

type API struct {
	logger   *slog.Logger
	hub      registry.Hubber
	signaler *call.Signaler
	notifier service.Notifier
	auther   service.Auther

	// serviceToken guards the internal push endpoint; shared with the
	// application backend.
	serviceToken string
}

func NewAPI(logger *slog.Logger, hub registry.Hubber, signaler *call.Signaler, notifier service.Notifier, auther service.Auther, cfg *config.Config) *API {
	return &API{
		logger:       logger,
		hub:          hub,
		signaler:     signaler,
		notifier:     notifier,
		auther:       auther,
		serviceToken: cfg.AppAPI.Token,
	}
}

func NewRouter(api *API, wsHandler *ws.WSHandler, lpHandler *lp.LPHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Get("/ws", wsHandler.ServeHTTP)
	r.Get("/poll/{userID}", lpHandler.Poll)

	r.Get("/notifications/{userID}", api.listNotifications)
	r.Post("/notifications/{userID}/{id}/read", api.markNotificationRead)

	r.Get("/stats", api.stats)

	r.Route("/internal", func(r chi.Router) {
		r.Use(api.requireServiceToken)
		r.Post("/notifications/push", api.pushNotification)
	})

	return r
}

// requireServiceToken gates backend-to-hub calls behind the shared secret.
// An empty configured token disables the check for local development.
func (a *API) requireServiceToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.serviceToken != "" && r.Header.Get("X-Service-Token") != a.serviceToken {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pushNotification is the direct push path: the backend persists the record
// itself and asks this node to attempt a live push. The response tells the
// backend whether anybody was reached; it never implies durability.
func (a *API) pushNotification(w http.ResponseWriter, r *http.Request) {
	var n model.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if n.UserID == uuid.Nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	outcome := a.notifier.Push(r.Context(), &n)

	writeJSON(w, http.StatusOK, map[string]any{
		"delivered": outcome.Delivered(),
		"reached":   outcome.Reached,
	})
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if !a.authenticate(w, r, userID) {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := a.notifier.List(r.Context(), userID, unreadOnly)
	if err != nil {
		a.logger.Error("notification list failed", "error", err, "user_id", userID)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

func (a *API) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	// Only the session owner may acknowledge; the backend additionally
	// checks the notification belongs to that user.
	if !a.authenticate(w, r, userID) {
		return
	}

	if err := a.notifier.MarkRead(r.Context(), userID, id); err != nil {
		a.logger.Error("mark read failed", "error", err, "notification_id", id)
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	s := a.hub.Stats()
	s.ActiveCalls = a.signaler.ActiveCount()
	writeJSON(w, http.StatusOK, s)
}

func (a *API) authenticate(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	credential := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if _, err := a.auther.Inspect(r.Context(), userID, credential); err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
