package postgres

import (
	"time"

	"gorm.io/gorm"

	deptDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/department"
	"github.com/intraforms/portal-api/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]department.Department, error) {
	var departments []department.Department
	err := r.db.Raw(`
		SELECT id, name, description
		FROM departments
		WHERE active = ?
		ORDER BY name`, true).Scan(&departments).Error
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []department.Department{}
	}
	return departments, nil
}

func (r *DepartmentRepository) Create(d *department.Department) error {
	row := &deptDatamodel.Department{
		Name:        d.Name,
		Description: d.Description,
		Active:      true,
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	return nil
}

// Update edits name and description; only active departments are updatable.
func (r *DepartmentRepository) Update(d *department.Department) error {
	result := r.db.Model(&deptDatamodel.Department{}).
		Where("id = ? AND active = ?", d.ID, true).
		Updates(map[string]interface{}{
			"name":        d.Name,
			"description": d.Description,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return department.ErrNotFound
	}
	return nil
}

// Delete deactivates the department. The row stays so user department_id
// references keep resolving.
func (r *DepartmentRepository) Delete(id int64) error {
	result := r.db.Model(&deptDatamodel.Department{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return department.ErrNotFound
	}
	return nil
}
