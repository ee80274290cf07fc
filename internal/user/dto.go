package user

import "github.com/intraforms/portal-api/internal"

// CreateUserDTO is the transport shape for POST /users.
type CreateUserDTO struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	DepartmentID *int64  `json:"departmentId"`
	RoleIDs      []int64 `json:"roleIds"`
}

// UpdateUserDTO is the transport shape for PUT /users/{id}. An empty
// Password leaves the stored hash untouched.
type UpdateUserDTO struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Active       *bool   `json:"active"`
	DepartmentID *int64  `json:"departmentId"`
	RoleIDs      []int64 `json:"roleIds"`
}

func (d CreateUserDTO) Validate() error {
	if d.Username == "" || d.Email == "" || d.Password == "" {
		return internal.ValidationError{Msg: "Username, email and password are required"}
	}
	return nil
}

func (d UpdateUserDTO) Validate() error {
	if d.Email == "" {
		return internal.ValidationError{Msg: "Email is required"}
	}
	return nil
}
