package models

import "time"

// Role is a closed set. Visibility logic dispatches over the type rather
// than comparing ad-hoc strings at call sites.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps stored or token-carried role strings onto the closed set,
// defaulting to the least-privileged role for anything unrecognized.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User is an identity record. Email and phone are optional; email, when
// present, is globally unique. Role is immutable after creation: there is no
// role-elevation endpoint.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // never serialized
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the caller identity the access-control guard binds to a
// request. ID 0 with empty role means anonymous.
type Identity struct {
	ID    int64
	Email string
	Role  Role
}

func (i Identity) Anonymous() bool {
	return i.ID == 0
}
