package access

import (
	"context"
	"strconv"
	"strings"
)

const (
	HeaderUserRole  = "X-User-Role"
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	QueryAsUser     = "as_user"
)

// Principal is the resolved identity and role of the caller. UserID is nil
// for callers that did not identify themselves.
type Principal struct {
	UserID *uint
	Role   Role
}

func NewPrincipal(userID uint, role string) Principal {
	return Principal{UserID: &userID, Role: ParseRole(role)}
}

// ResolvePrincipal builds a principal from the raw role and id header
// values. The role defaults to "user"; an id that is not a positive integer
// leaves the principal anonymous.
func ResolvePrincipal(roleHeader, userIDHeader string) Principal {
	return Principal{
		UserID: parseUserID(userIDHeader),
		Role:   ParseRole(roleHeader),
	}
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) HasUser() bool {
	return p.UserID != nil
}

// Is reports whether the principal is the user with the given id.
func (p Principal) Is(userID uint) bool {
	return p.UserID != nil && *p.UserID == userID
}

// IDString is the user id for logs; empty when anonymous.
func (p Principal) IDString() string {
	if p.UserID == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*p.UserID), 10)
}

func parseUserID(raw string) *uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the identity middleware, or
// an anonymous "user" principal.
func FromContext(ctx context.Context) Principal {
	if ctx != nil {
		if p, ok := ctx.Value(principalKey{}).(Principal); ok {
			return p
		}
	}
	return Principal{Role: RoleUser}
}
