package model

import "time"

const EventTypeLogin = "login"

// AuditEntry is an immutable record of a login event.
type AuditEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"` // snapshot of username at event time
	Role      string    `json:"role"`     // snapshot of role at event time
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	At        time.Time `json:"at"`
}
