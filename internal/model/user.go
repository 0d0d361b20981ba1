package model

import (
	"regexp"
	"strings"
	"time"
)

// Roles understood by the authorization layer. Anything else supplied at
// registration time falls back to RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User mirrors the 'users' table. PasswordHash is never serialized.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Tel          string    `json:"tel"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Registration is the inbound payload for POST /auth/register. The plain
// password lives only here; it is hashed before any User is constructed.
type Registration struct {
	Name     string `json:"name"`
	Tel      string `json:"tel"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Normalize trims whitespace, lower-cases the email and whitelists the role.
func (r *Registration) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Tel = strings.TrimSpace(r.Tel)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	role := strings.ToLower(strings.TrimSpace(r.Role))
	if role != RoleAdmin && role != RoleUser {
		role = RoleUser
	}
	r.Role = role
}

// Validate checks the field constraints; email uniqueness is left to the
// store's unique index.
func (r *Registration) Validate() error {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > 100 {
		fields["name"] = "name cannot be longer than 100 characters"
	}
	if r.Tel == "" {
		fields["tel"] = "telephone number is required"
	} else if len(r.Tel) > 20 {
		fields["tel"] = "telephone number cannot be longer than 20 characters"
	}
	if r.Email == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(r.Email) {
		fields["email"] = "email must be a valid address"
	}
	if len(r.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	return newValidationError(fields)
}
