package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the admin-facing view of an account, including soft-deleted rows.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Active         bool       `json:"active"`
	DepartmentID   *int64     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	Roles          []Role     `json:"roles,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
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

// UserDetail is the GET /users/{id} payload: the user plus resolved role and
// permission sets.
type UserDetail struct {
	User        *User        `json:"user"`
	Roles       []Role       `json:"roles"`
	Permissions []Permission `json:"permissions"`
}

// Repository is the storage surface for user administration. Writes that
// touch role assignments are transactional.
type Repository interface {
	GetAll() ([]*User, error)
	GetByID(id int64) (*User, error)
	GetRoles(userID int64) ([]Role, error)
	GetPermissions(userID int64) ([]Permission, error)
	CreateWithRoles(u *User, passwordHash string, roleIDs []int64) error
	UpdateWithRoles(u *User, passwordHash string, roleIDs []int64) error
	SoftDelete(id int64) error
}
