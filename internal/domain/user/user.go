package user

import (
	"errors"
	"strings"
)

type Role int

const (
	RoleUnknown Role = iota
	RoleEmployee
	RoleManager
	RoleAdmin
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, ErrUnknownRole
	}
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CanDecide reports whether the role may approve or reject leave requests.
func (r Role) CanDecide() bool {
	switch r {
	case RoleManager, RoleAdmin:
		return true
	case RoleEmployee, RoleUnknown:
		return false
	default:
		return false
	}
}

// SeesAllRequests reports whether the dashboard lists every request or only the user's own.
func (r Role) SeesAllRequests() bool {
	switch r {
	case RoleManager, RoleAdmin:
		return true
	case RoleEmployee, RoleUnknown:
		return false
	default:
		return false
	}
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose hash
	Role         Role   `json:"role"`
}

// Identity is what a session carries. The zero value is an anonymous visitor.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) Authenticated() bool {
	return i.UserID > 0 && i.Role != RoleUnknown
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
)
