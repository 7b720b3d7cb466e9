package models

import "encoding/json"

// UserStatus is the availability flag the backend stores on a user.
type UserStatus string

const (
	UserAvailable    UserStatus = "available"
	UserNotAvailable UserStatus = "not available"
)

// RoleRef is the role sub-document embedded in user payloads. The backend
// returns it either populated or as a bare object id, depending on the
// endpoint.
type RoleRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name,omitempty"`
	Permissions []int  `json:"permissions,omitempty"`
}

// UnmarshalJSON accepts both the populated object form and the bare id string
// form of a role reference.
func (r *RoleRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RoleRef{ID: id}
		return nil
	}
	type plain RoleRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RoleRef(p)
	return nil
}

// User is an account as returned by the user and auth endpoints.
type User struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Status        UserStatus `json:"status,omitempty"`
	Role          *RoleRef   `json:"role,omitempty"`
	Permissions   []int      `json:"permissions,omitempty"`
	Picture       string     `json:"picture,omitempty"`
	EmailVerified bool       `json:"emailVerified,omitempty"`
}

// EffectivePermissions returns the user's explicit permission override when
// present, falling back to the permissions of the user's role. A user with
// neither has no permissions.
func (u *User) EffectivePermissions() []int {
	if u == nil {
		return nil
	}
	if len(u.Permissions) > 0 {
		return u.Permissions
	}
	if u.Role != nil {
		return u.Role.Permissions
	}
	return nil
}
