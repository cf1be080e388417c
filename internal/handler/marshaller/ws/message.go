package wsmarshaller

import (
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// WSNotification is the client-facing shape of a notification push. The
// recipient ID is dropped: the frame already arrives on the recipient's
// own socket.
type WSNotification struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"` // "like", "comment", "connection_request", ...
	Sender    WSSender `json:"sender"`
	Message   string   `json:"message"`
	CreatedAt int64    `json:"created_at"`
}

type WSSender struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Headline    string `json:"headline,omitempty"`
}

func mapNotification(n *model.Notification) *WSNotification {
	return &WSNotification{
		ID:        n.ID.String(),
		Type:      string(n.Kind),
		Sender:    mapSender(n.Sender),
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

func mapSender(p model.Profile) WSSender {
	return WSSender{
		ID:          p.ID.String(),
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Headline:    p.Headline,
	}
}
