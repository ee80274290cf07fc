package department

import (
	"errors"

	"github.com/intraforms/portal-api/internal"
)

var ErrNotFound = errors.New("department not found")

type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Repository interface {
	GetAll() ([]Department, error)
	Create(d *Department) error
	Update(d *Department) error
	Delete(id int64) error
}

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateDepartmentDTO) Validate() error {
	if d.Name == "" {
		return internal.ValidationError{Msg: "Name is required"}
	}
	return nil
}
