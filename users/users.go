package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a user's role within the portal
type RoleType string

const (
	RoleUser  RoleType = "USER"
	RoleAdmin RoleType = "ADMIN"
)

// StatusType represents the lifecycle state of an account. Only ACTIVE
// accounts may authenticate or be resolved by the authorization gate.
type StatusType string

const (
	StatusActive    StatusType = "ACTIVE"
	StatusInactive  StatusType = "INACTIVE"
	StatusSuspended StatusType = "SUSPENDED"
)

type User struct {
	ID           string     `json:"id,omitempty"`          // Unique identifier for the user
	Email        string     `json:"email,omitempty"`       // User's email address
	Username     string     `json:"username,omitempty"`    // Optional unique username
	PasswordHash string     `json:"-"`                     // Hashed version of the user's password - never serialize
	FirstName    string     `json:"firstName,omitempty"`   // First name of the user
	LastName     string     `json:"lastName,omitempty"`    // Last name of the user
	Role         RoleType   `json:"role,omitempty"`        // USER or ADMIN
	Status       StatusType `json:"status,omitempty"`      // ACTIVE, INACTIVE or SUSPENDED
	Department   string     `json:"department,omitempty"`  // Department the user belongs to
	Position     string     `json:"position,omitempty"`    // Job position
	Phone        string     `json:"phone,omitempty"`       // Contact phone number
	CreatedAt    time.Time  `json:"createdAt,omitempty"`   // When the user registered
	UpdatedAt    time.Time  `json:"updatedAt,omitempty"`   // Last administrative update
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"` // Last successful login, nil before first login
}

// bcrypt work factor for newly hashed passwords
const hashCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a password against a stored digest. Mismatches
// and malformed digests both report false; the comparison itself is
// constant-time inside bcrypt.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Projection returns a copy of the user with the secret digest stripped,
// safe to serialize, cache, or hand back to callers.
func (u *User) Projection() *User {
	projection := *u
	projection.PasswordHash = ""
	return &projection
}
