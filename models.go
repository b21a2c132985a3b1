package usermgmt

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular account (i.e. self service only)
	RoleUser UserRole = "USER"
	// RoleAdmin is an administrator (i.e. full user management)
	RoleAdmin UserRole = "ADMIN"
)

// Claims are the identity attributes cached from the server's last
// authorization decision. The client never computes or upgrades them locally.
type Claims struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`
}

// Session is the (credential, claims) pair as read from a SessionStore.
// The zero value is the unauthenticated session.
type Session struct {
	Token  string
	Claims Claims
}

// User is the resource representation returned by the user management API.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        UserRole   `json:"role"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// LoginResponse is the payload returned by POST /api/auth/login.
type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`
}

// ClaimsFromUser maps a server confirmed user record onto cached claims.
func ClaimsFromUser(user *User) Claims {
	return Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
