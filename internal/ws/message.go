package ws

// Session event types
const (
	EventLogout = "logout"
)

// SessionEventsChannel is the redis channel session events travel on.
const SessionEventsChannel = "dashboard_auth_events"

type Message struct {
	Type   string      `json:"type"`
	UserID string      `json:"user_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}
