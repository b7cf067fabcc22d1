package model

import (
	"encoding/json"
	"strings"
)

// Role is the console role of a user. It decides which pages and actions are visible.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalises a role string. Spring authorities such as "ROLE_ADMIN" are accepted.
// Unknown values map to RoleUser.
func ParseRole(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleUser
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants every permission of min.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

// Label is the lower-case role name shown in the header.
func (r Role) Label() string {
	return strings.ToLower(string(r))
}

// User is an account of the property API.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Age      *int   `json:"age,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Initial is the upper-cased first letter of the display name.
func (u *User) Initial() string {
	n := u.DisplayName()
	if n == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(n)[:1]))
}

// UnmarshalJSON accepts both the user resource and the session payloads of
// /api/auth/me and /api/auth/login, which carry Spring authorities instead of a role.
func (u *User) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          int64             `json:"id"`
		Username    string            `json:"username"`
		Email       string            `json:"email"`
		Name        string            `json:"name"`
		LastName    string            `json:"lastName"`
		Role        string            `json:"role"`
		Age         *int              `json:"age"`
		Authorities []json.RawMessage `json:"authorities"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User{
		ID:       raw.ID,
		Username: raw.Username,
		Email:    raw.Email,
		Name:     strings.TrimSpace(strings.Join([]string{raw.Name, raw.LastName}, " ")),
		Age:      raw.Age,
	}
	role := RoleUser
	if raw.Role != "" {
		role = ParseRole(raw.Role)
	}
	for _, a := range raw.Authorities {
		if r := ParseRole(authorityName(a)); r.AtLeast(role) {
			role = r
		}
	}
	u.Role = role
	return nil
}

// authorityName reads either "ROLE_X" or {"authority":"ROLE_X"}.
func authorityName(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Authority string `json:"authority"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Authority
	}
	return ""
}

// NewUser is the payload of /api/auth/register and user updates.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Age      *int   `json:"age,omitempty"`
}
