package domain

// Role tags issued by the workshop API. A user holds exactly one.
const (
	RoleAdmin        = "ADMIN"
	RoleMechanic     = "MECHANIC"
	RoleReceptionist = "RECEPTIONIST"
)

// UserProfile is the identity snapshot cached alongside the bearer token.
// Its JSON form is the persisted `workshop_user` entry.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	FullName string `json:"fullName" form:"fullName" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Phone    string `json:"phone,omitempty" form:"phone"`
	Role     string `json:"role,omitempty" form:"role"`
}

// AuthResponse is the success body of both login and register.
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Profile derives the cached identity from an authentication result.
func (r AuthResponse) Profile() UserProfile {
	return UserProfile{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		FullName: r.FullName,
		Role:     r.Role,
	}
}
