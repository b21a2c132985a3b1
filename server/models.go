package server

import (
	"time"

	"github.com/goliatone/go-usermgmt"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted user record.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	Username     string            `bun:"username,notnull,unique" json:"username"`
	Email        string            `bun:"email,notnull,unique" json:"email"`
	Role         usermgmt.UserRole `bun:"user_role,notnull" json:"role"`
	PhoneNumber  string            `bun:"phone_number" json:"phoneNumber,omitempty"`
	DateOfBirth  string            `bun:"date_of_birth" json:"dateOfBirth,omitempty"`
	PasswordHash string            `bun:"password_hash,notnull" json:"-"`
	CreatedAt    *time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt    *time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// ToAPI strips the credential material and maps onto the wire representation
// consumed by the client core.
func (u *User) ToAPI() usermgmt.User {
	return usermgmt.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		DateOfBirth: u.DateOfBirth,
		CreatedAt:   u.CreatedAt,
	}
}
