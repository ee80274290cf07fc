package postgres

import (
	"gorm.io/gorm"

	"github.com/intraforms/portal-api/internal/role"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetAllActive() ([]role.Role, error) {
	var roles []role.Role
	err := r.db.Raw(`
		SELECT id, name, description
		FROM roles
		WHERE active = ?
		ORDER BY name`, true).Scan(&roles).Error
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []role.Role{}
	}
	return roles, nil
}
