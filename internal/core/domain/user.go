package domain

const (
	RoleTourist = "tourist"
	RoleVendor  = "vendor"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role belongs to the platform's fixed role set.
func ValidRole(role string) bool {
	return role == RoleTourist || role == RoleVendor || role == RoleAdmin
}

// Profile is the locally cached snapshot of the authenticated user.
// It may lag behind the backend's authoritative copy; callers that need
// fresh data re-fetch through the profile service.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	PhoneVerified bool   `json:"phone_verified,omitempty"`
}
