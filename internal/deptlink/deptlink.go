package deptlink

import "errors"

var ErrNotFound = errors.New("department link not found")

// Link is a department-scoped portal link.
type Link struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	URL        string `json:"url"`
	LinkType   string `json:"linkType"`
	OrderIndex int    `json:"orderIndex"`
}

// LinkWithDepartments adds the assigned department ids; used by the admin
// listing.
type LinkWithDepartments struct {
	Link
	DepartmentIDs []int64 `json:"departmentIds"`
}

type Repository interface {
	GetForDepartment(departmentID int64) ([]Link, error)
	GetAllWithDepartments() ([]LinkWithDepartments, error)
	CreateWithAssignments(l *Link, departmentIDs []int64) error
	UpdateWithAssignments(l *Link, departmentIDs []int64) error
	SoftDelete(id int64) error
	Reorder(linkIDs []int64) error
}
