package rbac

import "go-onboarding/internal/access"

type RolePermission struct {
	ID       uint   `gorm:"primaryKey"`
	Role     string `gorm:"size:32;not null;uniqueIndex:uq_role_permission"`
	Resource string `gorm:"size:64;not null;uniqueIndex:uq_role_permission"`
	Action   string `gorm:"size:64;not null;uniqueIndex:uq_role_permission"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// RoleInheritance lists child -> parent edges: a child role holds every
// permission of its parents.
var RoleInheritance = [][2]access.Role{
	{access.RoleAdmin, access.RoleBuilder},
	{access.RoleAdmin, access.RoleManager},
	{access.RoleManager, access.RoleUser},
	{access.RoleBuilder, access.RoleUser},
}

func DefaultPermissions() []RolePermission {
	return []RolePermission{
		{Role: "user", Resource: "week", Action: "read"},
		{Role: "user", Resource: "task", Action: "update"},
		{Role: "user", Resource: "plan", Action: "read-own"},
		{Role: "user", Resource: "notification", Action: "read"},

		{Role: "manager", Resource: "report", Action: "read"},

		{Role: "builder", Resource: "template", Action: "read"},
		{Role: "builder", Resource: "template", Action: "write"},

		{Role: "admin", Resource: "template", Action: "assign"},
		{Role: "admin", Resource: "plan", Action: "read"},
		{Role: "admin", Resource: "plan", Action: "delete"},
		{Role: "admin", Resource: "user", Action: "read"},
		{Role: "admin", Resource: "user", Action: "write"},
		{Role: "admin", Resource: "admin", Action: "overview"},
		{Role: "admin", Resource: "week", Action: "write"},
	}
}
