package models

// ============================================================================
// USER MODEL
// ============================================================================
// Identity itself is delegated to the upstream provider (Google sign-in on the
// frontend). This service only exchanges a verified email for the role the
// Users sheet assigns, and carries that role in the session token.

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Team  string `json:"team,omitempty"`
}

// Roles the Users sheet hands out. Managers may approve/reject report rows.
const (
	RoleManager = "manager"
	RoleSales   = "sales"
)

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
