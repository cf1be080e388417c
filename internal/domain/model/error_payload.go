package model

// ErrorPayload rejects a single client frame without tearing the session
// down. Codes are stable protocol identifiers, messages are for humans.
type ErrorPayload struct {
	Code    string `json:"code"` // "ALREADY_RINGING", "SELF_CALL", "BAD_FRAME"
	Message string `json:"message"`
}
