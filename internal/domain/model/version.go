package model

// ServerVersion is reported in the registration handshake.
const ServerVersion = "1.3.0"
