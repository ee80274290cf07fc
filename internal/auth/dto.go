package auth

import "github.com/intraforms/portal-api/internal"

// LoginDTO is the transport shape accepted by the login handler.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields and returns an internal.ValidationError
// on failure.
func (d LoginDTO) Validate() error {
	if d.Username == "" || d.Password == "" {
		return internal.ValidationError{Msg: "Username and password are required"}
	}
	return nil
}
