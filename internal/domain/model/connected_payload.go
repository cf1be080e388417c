package model

// ConnectedPayload is sent to the client once registration completes. The
// client is expected to follow up with a fetch of its unread notifications;
// the live push path alone carries no delivery guarantee.
type ConnectedPayload struct {
	Ok            bool   `json:"ok"`
	ConnectionID  string `json:"connection_id"`
	ServerVersion string `json:"server_version"`
}
