package model

import "time"

// Session maps an opaque bearer token to the identity captured at login.
// Username and role are snapshots from creation time; later changes to the
// underlying user do not propagate until the session is re-issued.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) Identity() Identity {
	return Identity{ID: s.UserID, Username: s.Username, Role: s.Role}
}
