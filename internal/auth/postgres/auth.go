package postgres

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/intraforms/portal-api/internal/auth"
	userDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/user"
)

// Repository implements auth.RepositoryAPI using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetActiveUserByUsername(username string) (*auth.UserAccount, error) {
	return r.getActiveUser("username = ?", username)
}

func (r *Repository) GetActiveUserByID(userID int64) (*auth.UserAccount, error) {
	return r.getActiveUser("id = ?", userID)
}

func (r *Repository) getActiveUser(cond string, arg interface{}) (*auth.UserAccount, error) {
	var row userDatamodel.User
	err := r.db.Where(cond, arg).Where("active = ?", true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.UserAccount{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		DepartmentID: row.DepartmentID,
		Active:       row.Active,
	}, nil
}

func (r *Repository) GetRolesForUser(userID int64) ([]auth.Role, error) {
	var roles []auth.Role
	err := r.db.Raw(`
		SELECT r.id, r.name, r.description
		FROM roles r
		INNER JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = ? AND r.active = ?
		ORDER BY r.name`, userID, true).Scan(&roles).Error
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []auth.Role{}
	}
	return roles, nil
}

func (r *Repository) GetPermissionsForUser(userID int64) ([]auth.Permission, error) {
	var perms []auth.Permission
	err := r.db.Raw(`
		SELECT DISTINCT p.id, p.name, p.resource, p.action, p.description
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		INNER JOIN user_roles ur ON rp.role_id = ur.role_id
		WHERE ur.user_id = ?`, userID).Scan(&perms).Error
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []auth.Permission{}
	}
	return perms, nil
}

func (r *Repository) UpdateLastLogin(userID int64) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}
