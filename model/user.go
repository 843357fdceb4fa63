package model

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ValidRole reports whether role is one of the enumerated account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

// User stores an administrative operator account.
// Password holds a bcrypt hash, or legacy plaintext until the first
// successful login upgrades it.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	Role        string     `json:"role"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// Identity is the subset of user fields captured into a session at login.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}
