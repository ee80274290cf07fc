package link

import "time"

// DepartmentLink is a portal link scoped to one or more departments via
// department_link_assignments.
type DepartmentLink struct {
	ID         int64     `gorm:"primaryKey"`
	Title      string    `gorm:"column:title;not null"`
	Icon       string    `gorm:"column:icon;default:mdi-link"`
	URL        string    `gorm:"column:url;not null"`
	LinkType   string    `gorm:"column:link_type;default:internal"`
	OrderIndex int       `gorm:"column:order_index"`
	Active     bool      `gorm:"column:active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (DepartmentLink) TableName() string {
	return "department_links"
}

type DepartmentLinkAssignment struct {
	ID               int64     `gorm:"primaryKey"`
	DepartmentLinkID int64     `gorm:"column:department_link_id;not null;index"`
	DepartmentID     int64     `gorm:"column:department_id;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (DepartmentLinkAssignment) TableName() string {
	return "department_link_assignments"
}

// QuickLink is visible to every authenticated user.
type QuickLink struct {
	ID         int64     `gorm:"primaryKey"`
	Title      string    `gorm:"column:title;not null"`
	Icon       string    `gorm:"column:icon;default:mdi-link"`
	URL        string    `gorm:"column:url;not null"`
	LinkType   string    `gorm:"column:link_type;default:internal"`
	OrderIndex int       `gorm:"column:order_index"`
	Active     bool      `gorm:"column:active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (QuickLink) TableName() string {
	return "quick_links"
}
