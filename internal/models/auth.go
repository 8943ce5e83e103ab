package models

import "github.com/golang-jwt/jwt/v5"

// RoleName identifies the well-known roles used for RBAC decisions.
type RoleName string

const (
	RoleSuperAdmin RoleName = "SUPERADMIN"
	RoleAdmin      RoleName = "ADMIN"
	RoleProfessor  RoleName = "PROFESSOR"
	RoleParent     RoleName = "PARENT"
)

// JWTClaims carries the identity information embedded in access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   RoleName `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued token and the authenticated identity.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        RoleName `json:"role"`
}

// ChangePasswordRequest carries an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
