package domain

import (
	"strings"
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin Role = "admin" // Coach: authors plans and manages users
	RoleUser  Role = "user"  // Client: works through assigned plans
)

// User represents an account in the system (either a coach or a client).
type User struct {
	ID           int64  `bson:"id" json:"id"`
	Username     string `bson:"username" json:"username"`
	UsernameKey  string `bson:"usernameKey" json:"-"` // Lowercased username, unique index for case-insensitive lookups
	PasswordHash string `bson:"passwordHash,omitempty" json:"-"`
	// LegacyPassword holds plaintext passwords of accounts created before hashing was introduced.
	// It is replaced by PasswordHash on the first successful login.
	LegacyPassword string    `bson:"password,omitempty" json:"-"`
	Role           Role      `bson:"role" json:"role"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser
}

// NormalizeUsername returns the key used to match usernames case-insensitively.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
