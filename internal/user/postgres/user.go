package postgres

import (
	"time"

	"gorm.io/gorm"

	userDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/user"
	"github.com/intraforms/portal-api/internal/user"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID             int64
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Active         bool
	DepartmentID   *int64
	DepartmentName *string
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (row *userRow) toDomain() *user.User {
	u := &user.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Active:       row.Active,
		DepartmentID: row.DepartmentID,
		LastLogin:    row.LastLogin,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.DepartmentName != nil {
		u.DepartmentName = *row.DepartmentName
	}
	return u
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var rows []userRow
	err := r.db.Raw(`
		SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.active,
		       u.department_id, d.name AS department_name, u.last_login,
		       u.created_at, u.updated_at
		FROM users u
		LEFT JOIN departments d ON u.department_id = d.id
		ORDER BY u.username`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	byID := make(map[int64]*user.User, len(rows))
	for i := range rows {
		u := rows[i].toDomain()
		users = append(users, u)
		byID[u.ID] = u
	}

	// One pass over the assignment join instead of a per-user query.
	var assignments []struct {
		UserID      int64
		ID          int64
		Name        string
		Description string
	}
	err = r.db.Raw(`
		SELECT ur.user_id, r.id, r.name, r.description
		FROM roles r
		INNER JOIN user_roles ur ON r.id = ur.role_id
		WHERE r.active = ?
		ORDER BY r.name`, true).Scan(&assignments).Error
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if u, ok := byID[a.UserID]; ok {
			u.Roles = append(u.Roles, user.Role{ID: a.ID, Name: a.Name, Description: a.Description})
		}
	}

	return users, nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var rows []userRow
	err := r.db.Raw(`
		SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.active,
		       u.department_id, d.name AS department_name, u.last_login,
		       u.created_at, u.updated_at
		FROM users u
		LEFT JOIN departments d ON u.department_id = d.id
		WHERE u.id = ?`, id).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, user.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *UserRepository) GetRoles(userID int64) ([]user.Role, error) {
	var roles []user.Role
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
		roles = []user.Role{}
	}
	return roles, nil
}

func (r *UserRepository) GetPermissions(userID int64) ([]user.Permission, error) {
	var perms []user.Permission
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
		perms = []user.Permission{}
	}
	return perms, nil
}

// CreateWithRoles inserts the user row and its role assignments in one
// transaction; any failure rolls the whole write back.
func (r *UserRepository) CreateWithRoles(u *user.User, passwordHash string, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		row := &userDatamodel.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: passwordHash,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Active:       u.Active,
			DepartmentID: u.DepartmentID,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		u.ID = row.ID
		u.CreatedAt = row.CreatedAt
		u.UpdatedAt = row.UpdatedAt

		for _, roleID := range roleIDs {
			assignment := &userDatamodel.UserRole{UserID: row.ID, RoleID: roleID}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateWithRoles updates profile fields and replaces role assignments. An
// empty passwordHash keeps the stored one.
func (r *UserRepository) UpdateWithRoles(u *user.User, passwordHash string, roleIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"email":         u.Email,
			"first_name":    u.FirstName,
			"last_name":     u.LastName,
			"active":        u.Active,
			"department_id": u.DepartmentID,
			"updated_at":    time.Now(),
		}
		if passwordHash != "" {
			updates["password_hash"] = passwordHash
		}

		result := tx.Model(&userDatamodel.User{}).Where("id = ?", u.ID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return user.ErrNotFound
		}

		if err := tx.Where("user_id = ?", u.ID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		for _, roleID := range roleIDs {
			assignment := &userDatamodel.UserRole{UserID: u.ID, RoleID: roleID}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) SoftDelete(id int64) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
