package model

// DisconnectedPayload is the last frame pushed before the server closes a
// session on its own initiative.
type DisconnectedPayload struct {
	Reason string `json:"reason"`
	Code   string `json:"code,omitempty"` // "SHUTDOWN", "EVICTED", "PROTOCOL_ERROR"
}
