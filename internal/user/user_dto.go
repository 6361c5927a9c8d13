package user

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"full_name" binding:"required,max=255"`
	Role      string `json:"role" binding:"omitempty,oneof=user manager builder admin"`
	ManagerID *uint  `json:"manager_id"`
	Password  string `json:"password" binding:"omitempty,min=8"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Role     string `json:"role" binding:"omitempty,oneof=user manager builder admin"`
	// ManagerID replaces the current manager; null clears it.
	ManagerID *uint `json:"manager_id"`
}

type UserResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	ManagerID        *uint  `json:"manager_id"`
	OnboardingPlanID *uint  `json:"onboarding_plan_id"`
	CreatedAt        string `json:"created_at"`
}

type DirectReportsResponse struct {
	Manager       UserResponse   `json:"manager"`
	DirectReports []UserResponse `json:"direct_reports"`
}
