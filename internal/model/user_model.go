package model

import "time"

// Role and provider values are stored as plain strings but only these
// constants are accepted at the application boundary.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           string     `json:"id"`
	UserName     string     `json:"userName"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never JSON-encode
	Role         string     `json:"role"`
	Provider     string     `json:"provider"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserUpdate carries a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	UserName     *string
	Name         *string
	Email        *string
	Role         *string
	PasswordHash *string
}

// Empty reports whether the update would change nothing.
func (u *UserUpdate) Empty() bool {
	return u.UserName == nil && u.Name == nil && u.Email == nil && u.Role == nil && u.PasswordHash == nil
}
