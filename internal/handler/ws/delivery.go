package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/call"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
	wsmarshaller "github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/handler/marshaller/ws"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/service"
)

type WSHandler struct {
	logger    *slog.Logger
	deliverer service.Deliverer
	auther    service.Auther
	enricher  service.Enricher
	signaler  *call.Signaler

	registerDeadline time.Duration
	sendTimeout      time.Duration
	upgrader         websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, deliverer service.Deliverer, auther service.Auther, enricher service.Enricher, signaler *call.Signaler, cfg *config.Config) *WSHandler {
	return &WSHandler{
		logger:           logger,
		deliverer:        deliverer,
		auther:           auther,
		enricher:         enricher,
		signaler:         signaler,
		registerDeadline: cfg.Hub.RegisterDeadline,
		sendTimeout:      cfg.Hub.SendTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	// The socket stays anonymous until a valid register-user frame arrives.
	// Nothing is attached to the hub before that, so an unauthenticated
	// client can never receive traffic.
	userID, platform, ok := h.awaitRegistration(r.Context(), ws)
	if !ok {
		return
	}

	conn, err := h.deliverer.Subscribe(r.Context(), userID, registry.ConnectMetadata{
		Platform:  platform,
		RemoteIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		return
	}
	defer h.deliverer.Unsubscribe(userID, conn.GetID())

	conn.Send(event.NewSystemEvent(userID, event.Connected, event.PriorityHigh, &model.ConnectedPayload{
		Ok:            true,
		ConnectionID:  conn.GetID().String(),
		ServerVersion: model.ServerVersion,
	}), h.sendTimeout)

	h.logger.Info("ws opened", "user_id", userID, "conn_id", conn.GetID())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.readLoop(ctx, cancel, ws, conn)

	h.writePump(ctx, ws, conn)
}

// awaitRegistration reads exactly one frame under a deadline and validates
// the claimed identity against the application backend.
func (h *WSHandler) awaitRegistration(ctx context.Context, ws *websocket.Conn) (uuid.UUID, string, bool) {
	ws.SetReadDeadline(time.Now().Add(h.registerDeadline))
	defer ws.SetReadDeadline(time.Time{})

	_, raw, err := ws.ReadMessage()
	if err != nil {
		return uuid.Nil, "", false
	}

	var frame ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Type != FrameRegisterUser || frame.UserID == uuid.Nil {
		h.rejectAndClose(ws, "BAD_FRAME", "expected a register-user frame")
		return uuid.Nil, "", false
	}

	if _, err := h.auther.Inspect(ctx, frame.UserID, frame.Credential); err != nil {
		if !errors.Is(err, service.ErrUnauthenticated) {
			h.logger.Error("registration check failed", "error", err)
		}
		h.rejectAndClose(ws, "UNAUTHENTICATED", "credential rejected")
		return uuid.Nil, "", false
	}

	return frame.UserID, frame.Platform, true
}

// rejectAndClose is safe only before the pumps start: it is the sole writer
// at that point.
func (h *WSHandler) rejectAndClose(ws *websocket.Conn, code, msg string) {
	raw, err := wsmarshaller.MarshallDeliveryEvent(
		event.NewSystemEvent(uuid.Nil, event.ProtocolError, event.PriorityHigh, &model.ErrorPayload{Code: code, Message: msg}))
	if err == nil {
		ws.WriteMessage(websocket.TextMessage, raw)
	}
	ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, code))
}

// writePump is the single writer on the socket. All frames, including acks
// produced by the read loop, funnel through the connector mailbox.
func (h *WSHandler) writePump(ctx context.Context, ws *websocket.Conn, conn registry.Connector) {
	recv := conn.Recv()

	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.Done():
			// The hub evicted this session (stale prune or shutdown);
			// tell the client before dropping the transport.
			raw, err := wsmarshaller.MarshallDeliveryEvent(
				event.NewSystemEvent(conn.GetUserID(), event.Disconnected, event.PriorityHigh, &model.DisconnectedPayload{
					Reason: "session terminated by server",
					Code:   "EVICTED",
				}))
			if err == nil {
				ws.WriteMessage(websocket.TextMessage, raw)
			}
			return
		case ev := <-recv:
			raw, err := wsmarshaller.MarshallDeliveryEvent(ev)
			if err != nil {
				h.logger.Error("failed to marshal ws event", "error", err)
				continue
			}

			if err := ws.WriteMessage(websocket.TextMessage, raw); err != nil {
				h.logger.Warn("ws send failed", "error", err)
				return
			}
		}
	}
}

// readLoop turns inbound frames into signaling calls. It never writes to
// the socket directly; responses go through conn.Send so the write pump
// stays the only writer.
func (h *WSHandler) readLoop(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, conn registry.Connector) {
	defer cancel()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendErr(conn, "BAD_FRAME", "frame is not valid JSON")
			continue
		}

		h.dispatch(ctx, conn, &frame)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, conn registry.Connector, frame *ClientFrame) {
	userID := conn.GetUserID()

	switch frame.Type {
	case FrameOfferCall:
		h.handleOffer(ctx, conn, frame.CalleeID)

	case FrameAcceptCall:
		// Unknown or already-finished invitations are silent no-ops; the
		// client learns the outcome from signaling frames, not from acks.
		h.signaler.Accept(ctx, frame.InvitationID, userID)

	case FrameDeclineCall:
		h.signaler.Decline(ctx, frame.InvitationID, userID)

	case FrameCancelCall:
		h.signaler.Cancel(ctx, frame.InvitationID, userID)

	case FrameRegisterUser:
		// Session identity is fixed at registration.
		h.sendErr(conn, "ALREADY_REGISTERED", "session is already registered")

	default:
		h.sendErr(conn, "BAD_FRAME", "unknown frame type: "+frame.Type)
	}
}

func (h *WSHandler) handleOffer(ctx context.Context, conn registry.Connector, callee uuid.UUID) {
	userID := conn.GetUserID()

	caller, err := h.enricher.ResolveProfile(ctx, userID)
	if err != nil {
		caller = model.NewProfile(userID)
	}

	inv, err := h.signaler.Offer(ctx, caller, callee)
	switch {
	case errors.Is(err, call.ErrNoCallee):
		h.sendErr(conn, "BAD_FRAME", "callee_id is required")
		return
	case errors.Is(err, call.ErrSelfCall):
		h.sendErr(conn, "SELF_CALL", "cannot call yourself")
		return
	case errors.Is(err, call.ErrAlreadyRinging):
		h.sendErr(conn, "ALREADY_RINGING", "an invitation to this user is still pending")
		return
	case err != nil:
		h.sendErr(conn, "OFFER_FAILED", "could not place the call")
		return
	}

	// Ack only to the offering device; other caller devices join in once
	// the callee answers.
	conn.Send(event.NewAnswerEvent(userID, event.CallOffered, &model.CallAnswerPayload{
		InvitationID: inv.ID,
		RoomURL:      inv.RoomURL,
	}), h.sendTimeout)
}

func (h *WSHandler) sendErr(conn registry.Connector, code, msg string) {
	conn.Send(event.NewSystemEvent(conn.GetUserID(), event.ProtocolError, event.PriorityHigh, &model.ErrorPayload{
		Code:    code,
		Message: msg,
	}), h.sendTimeout)
}
