package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the user's role in the system.
type Role string

const (
	RoleVictim     Role = "victim"
	RoleDispatcher Role = "dispatcher"
	RoleAdmin      Role = "admin"
)

// User is an account able to authenticate. Dispatchers and admins drive
// assignments; victims submit requests.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
