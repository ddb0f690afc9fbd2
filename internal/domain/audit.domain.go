package domain

import "time"

// Audit actions
const (
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionRegister = "register"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionToggle   = "toggle"
)

// Audited resources
const (
	ResourceSession  = "session"
	ResourceUser     = "user"
	ResourceProperty = "property"
	ResourceFacility = "facility"
	ResourceCategory = "category"
	ResourceSlider   = "slider"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type AuditEvent struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary feeds the dashboard screen.
type Summary struct {
	AdminName       string
	TotalProperties int
	TotalCustomers  int
	RecentActivity  []*AuditEvent
}
