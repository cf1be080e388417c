package lp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	lpmarshaller "github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/marshaller/lp"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

const (
	pollWindow = 30 * time.Second
	drainLimit = 15
)

// LPHandler is the degraded-network fallback: each poll registers a
// short-lived connection, waits for traffic and tears it down again.
// Signaling over long-poll works but rings with request-cycle latency.
type LPHandler struct {
	deliverer service.Deliverer
	auther    service.Auther
}

func NewLPHandler(deliverer service.Deliverer, auther service.Auther) *LPHandler {
	return &LPHandler{
		deliverer: deliverer,
		auther:    auther,
	}
}

// Poll holds the request until an event arrives or the window closes.
func (h *LPHandler) Poll(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	credential := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if _, err := h.auther.Inspect(r.Context(), userID, credential); err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	// Temporary subscription: the connector lives only for the duration of
	// this HTTP request.
	conn, err := h.deliverer.Subscribe(r.Context(), userID, registry.ConnectMetadata{
		Platform:  "longpoll",
		RemoteIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		http.Error(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}
	defer h.deliverer.Unsubscribe(userID, conn.GetID())

	recv := conn.Recv()
	var events []event.Eventer

	select {
	case <-r.Context().Done():
		return

	case <-conn.Done():
		w.WriteHeader(http.StatusNoContent)
		return

	case <-time.After(pollWindow):
		// Standard long-polling timeout to prevent hanging connections.
		w.WriteHeader(http.StatusNoContent)
		return

	case ev := <-recv:
		events = append(events, ev)

		// Drain whatever else is queued to minimize the number of
		// follow-up requests.
	drainLoop:
		for i := 0; i < drainLimit; i++ {
			select {
			case nextEv := <-recv:
				events = append(events, nextEv)
			default:
				break drainLoop
			}
		}
	}

	data, err := lpmarshaller.MarshallEvents(events)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
