package amqp

import (
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// NotificationV1 is the wire payload the application backend publishes when
// it persists a notification record.
type NotificationV1 struct {
	NotificationID string   `json:"notification_id"`
	UserID         string   `json:"user_id"`
	Type           string   `json:"type"`
	Sender         SenderV1 `json:"sender"`
	Message        string   `json:"message"`
	OccurredAt     string   `json:"occurred_at"`
}

type SenderV1 struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (d *NotificationV1) ToDomain() *model.Notification {
	return &model.Notification{
		ID:     safeParseUUID(d.NotificationID),
		UserID: safeParseUUID(d.UserID),
		Kind:   model.NotificationKind(d.Type),
		Sender: model.Profile{
			ID:          safeParseUUID(d.Sender.ID),
			Username:    d.Sender.Username,
			DisplayName: d.Sender.DisplayName,
			AvatarURL:   d.Sender.AvatarURL,
		},
		Message:   d.Message,
		CreatedAt: safeParseRFC3339(d.OccurredAt),
	}
}

func safeParseUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func safeParseRFC3339(s string) int64 {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}
