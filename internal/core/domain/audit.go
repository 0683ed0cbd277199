package domain

import "time"

// Audit actions recorded for the auth trail.
const (
	AuditActionRegister    = "register"
	AuditActionLogin       = "login"
	AuditActionProfileRead = "profile_read"
)

// AuditEvent records a single authentication-related action.
type AuditEvent struct {
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Result    string    `json:"result"` // "success" or a short failure reason
	Timestamp time.Time `json:"timestamp"`
}
