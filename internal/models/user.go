// Package models contains the domain entities of the content API:
// users, categories, articles, subscription plans and user subscriptions,
// plus the Dummy* payload types used to receive JSON requests before
// validation and conversion.
package models

import "time"

// Roles a user account can hold. Every user has exactly one.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleReader = "READER"
)

// User represents a registered account.
type User struct {
	UID          string    // Unique identifier (uuid)
	Email        string    // E-mail address
	Username     string    // Unique login name
	PasswordHash string    // bcrypt hash of the password
	Role         string    // One of RoleAdmin, RoleEditor, RoleReader
	Bio          string    // Optional profile text
	CreatedAt    time.Time // Set by the database
}

// IsStaff reports whether the user belongs to the editorial staff.
// Staff members see all articles, drafts included.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}

// DummyRegister receives registration data from a JSON request.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLogin receives login credentials from a JSON request.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
