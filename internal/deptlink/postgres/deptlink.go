package postgres

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	linkDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/link"
	"github.com/intraforms/portal-api/internal/deptlink"
)

// LinkRepository implements deptlink.Repository using GORM.
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) deptlink.Repository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) GetForDepartment(departmentID int64) ([]deptlink.Link, error) {
	var links []deptlink.Link
	err := r.db.Raw(`
		SELECT DISTINCT dl.id, dl.title, dl.icon, dl.url,
		       dl.link_type AS link_type, dl.order_index AS order_index
		FROM department_links dl
		INNER JOIN department_link_assignments dla ON dl.id = dla.department_link_id
		WHERE dl.active = ? AND dla.department_id = ?
		ORDER BY dl.order_index`, true, departmentID).Scan(&links).Error
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []deptlink.Link{}
	}
	return links, nil
}

func (r *LinkRepository) GetAllWithDepartments() ([]deptlink.LinkWithDepartments, error) {
	var rows []struct {
		ID           int64
		Title        string
		Icon         string
		URL          string `gorm:"column:url"`
		LinkType     string
		OrderIndex   int
		DepartmentID *int64
	}
	err := r.db.Raw(`
		SELECT dl.id, dl.title, dl.icon, dl.url,
		       dl.link_type AS link_type, dl.order_index AS order_index,
		       dla.department_id AS department_id
		FROM department_links dl
		LEFT JOIN department_link_assignments dla ON dl.id = dla.department_link_id
		WHERE dl.active = ?
		ORDER BY dl.order_index`, true).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	links := make([]deptlink.LinkWithDepartments, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, seen := index[row.ID]
		if !seen {
			links = append(links, deptlink.LinkWithDepartments{
				Link: deptlink.Link{
					ID:         row.ID,
					Title:      row.Title,
					Icon:       row.Icon,
					URL:        row.URL,
					LinkType:   row.LinkType,
					OrderIndex: row.OrderIndex,
				},
				DepartmentIDs: []int64{},
			})
			i = len(links) - 1
			index[row.ID] = i
		}
		if row.DepartmentID != nil {
			links[i].DepartmentIDs = append(links[i].DepartmentIDs, *row.DepartmentID)
		}
	}
	return links, nil
}

// CreateWithAssignments inserts the link at the end of the display order and
// its department assignments in one transaction.
func (r *LinkRepository) CreateWithAssignments(l *deptlink.Link, departmentIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder sql.NullInt64
		if err := tx.Raw(`SELECT MAX(order_index) FROM department_links WHERE active = ?`, true).Scan(&maxOrder).Error; err != nil {
			return err
		}
		order := 1
		if maxOrder.Valid {
			order = int(maxOrder.Int64) + 1
		}

		row := &linkDatamodel.DepartmentLink{
			Title:      l.Title,
			Icon:       l.Icon,
			URL:        l.URL,
			LinkType:   l.LinkType,
			OrderIndex: order,
			Active:     true,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		l.ID = row.ID
		l.OrderIndex = order

		for _, deptID := range departmentIDs {
			assignment := &linkDatamodel.DepartmentLinkAssignment{
				DepartmentLinkID: row.ID,
				DepartmentID:     deptID,
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateWithAssignments updates the link fields and replaces its department
// assignments; only active links are updatable.
func (r *LinkRepository) UpdateWithAssignments(l *deptlink.Link, departmentIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&linkDatamodel.DepartmentLink{}).
			Where("id = ? AND active = ?", l.ID, true).
			Updates(map[string]interface{}{
				"title":      l.Title,
				"icon":       l.Icon,
				"url":        l.URL,
				"link_type":  l.LinkType,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return deptlink.ErrNotFound
		}

		if err := tx.Where("department_link_id = ?", l.ID).Delete(&linkDatamodel.DepartmentLinkAssignment{}).Error; err != nil {
			return err
		}
		for _, deptID := range departmentIDs {
			assignment := &linkDatamodel.DepartmentLinkAssignment{
				DepartmentLinkID: l.ID,
				DepartmentID:     deptID,
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LinkRepository) SoftDelete(id int64) error {
	result := r.db.Model(&linkDatamodel.DepartmentLink{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return deptlink.ErrNotFound
	}
	return nil
}

// Reorder writes order_index 1..n in the given id order, atomically.
func (r *LinkRepository) Reorder(linkIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range linkIDs {
			err := tx.Model(&linkDatamodel.DepartmentLink{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{"order_index": i + 1, "updated_at": time.Now()}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
