package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is a permission level. Levels are totally ordered; a higher level
// implies every permission of the lower ones.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleEditor
	RoleManager
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleCustomer:   "customer",
	RoleEditor:     "editor",
	RoleManager:    "manager",
	RoleAdmin:      "admin",
	RoleSuperAdmin: "super_admin",
}

// ParseRole maps the stored name back to a Role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether r is one of the defined levels.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

// CanGrant reports whether an actor with role r may assign target to
// another user. Only super_admin may grant its own level.
func (r Role) CanGrant(target Role) bool {
	if !r.Valid() || !target.Valid() {
		return false
	}
	if r == RoleSuperAdmin {
		return true
	}
	return target < r
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return r.String(), nil
}

// Scan reads a role name column.
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("unsupported role column type %T", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
