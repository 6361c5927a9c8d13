package access

import "strings"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleBuilder Role = "builder"
	RoleAdmin   Role = "admin"

	// RoleUnknown is any role string outside the closed set. It is denied
	// everywhere.
	RoleUnknown Role = "unknown"
)

var knownRoles = []Role{RoleUser, RoleManager, RoleBuilder, RoleAdmin}

func Roles() []Role {
	out := make([]Role, len(knownRoles))
	copy(out, knownRoles)
	return out
}

// ParseRole normalizes s (trimmed, lower-cased). An empty string is the
// default "user" role.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleUser
	}
	for _, r := range knownRoles {
		if string(r) == s {
			return r
		}
	}
	return RoleUnknown
}

func (r Role) Valid() bool {
	return r != RoleUnknown && ParseRole(string(r)) == r
}

func (r Role) String() string {
	return string(r)
}
