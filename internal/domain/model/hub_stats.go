package model

import "time"

// HubStats is the monitoring snapshot exposed on /stats.
type HubStats struct {
	TotalUsers       int           `json:"total_users"`
	TotalConnections int           `json:"total_connections"`
	ActiveCalls      int           `json:"active_calls"`
	Uptime           time.Duration `json:"uptime"`
}
