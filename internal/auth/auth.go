package auth

import (
	"errors"

	"github.com/intraforms/portal-api/internal"
)

// ServiceAPI is the authentication surface consumed by HTTP handlers.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*AuthResult, error)
	Refresh(refreshToken string) (*AuthResult, error)
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
	HashPassword(password string) (string, error)
}

// RepositoryAPI loads credential and authorization data for the auth flows.
type RepositoryAPI interface {
	GetActiveUserByUsername(username string) (*UserAccount, error)
	GetActiveUserByID(userID int64) (*UserAccount, error)
	GetRolesForUser(userID int64) ([]Role, error)
	GetPermissionsForUser(userID int64) ([]Permission, error)
	UpdateLastLogin(userID int64) error
}

// UserAccount is the credential-store view of a user row.
type UserAccount struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
	Active       bool   `json:"-"`
}

type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// AuthResult is what a successful login or refresh produces: a fresh token
// pair plus the user snapshot the client caches.
type AuthResult struct {
	Token        string
	RefreshToken string
	User         *UserAccount
	Roles        []Role
	Permissions  []Permission
}

// AuthResponse is the wire shape for /api/auth endpoints.
type AuthResponse struct {
	Success      bool         `json:"success"`
	Token        string       `json:"token,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *UserAccount `json:"user,omitempty"`
	Roles        []Role       `json:"roles,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
	Message      string       `json:"message,omitempty"`
}

func (r *AuthResult) ToResponse() AuthResponse {
	return AuthResponse{
		Success:      true,
		Token:        r.Token,
		RefreshToken: r.RefreshToken,
		User:         r.User,
		Roles:        r.Roles,
		Permissions:  r.Permissions,
	}
}

// PermissionClaims converts the loaded permissions to the claim entries
// embedded in access tokens.
func (r *AuthResult) PermissionClaims() []internal.PermissionClaim {
	return toPermissionClaims(r.Permissions)
}

func toPermissionClaims(perms []Permission) []internal.PermissionClaim {
	claims := make([]internal.PermissionClaim, 0, len(perms))
	for _, p := range perms {
		claims = append(claims, internal.PermissionClaim{
			Name:     p.Name,
			Resource: p.Resource,
			Action:   p.Action,
		})
	}
	return claims
}

func roleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserNotFound       = errors.New("user not found")
)
