package rbac

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	// Inherited is true when the permission comes from a parent role.
	Inherited bool `json:"inherited"`
}

type RolePermissionsResponse struct {
	Role        string               `json:"role"`
	Inherits    []string             `json:"inherits"`
	Permissions []PermissionResponse `json:"permissions"`
}
