package deptlink

import "github.com/intraforms/portal-api/internal"

// LinkDTO is the transport shape for create and update requests.
type LinkDTO struct {
	Title         string  `json:"title"`
	Icon          string  `json:"icon"`
	URL           string  `json:"url"`
	LinkType      string  `json:"linkType"`
	DepartmentIDs []int64 `json:"departmentIds"`
}

// ReorderDTO carries link ids in their new display order.
type ReorderDTO struct {
	LinkIDs []int64 `json:"linkIds"`
}

func (d LinkDTO) Validate() error {
	if d.Title == "" || d.URL == "" {
		return internal.ValidationError{Msg: "Title and URL are required"}
	}
	if len(d.DepartmentIDs) == 0 {
		return internal.ValidationError{Msg: "At least one department must be selected"}
	}
	return nil
}

func (d ReorderDTO) Validate() error {
	if len(d.LinkIDs) == 0 {
		return internal.ValidationError{Msg: "Link IDs are required"}
	}
	return nil
}

// withDefaults fills the icon and link type the portal assumes when omitted.
func (d LinkDTO) withDefaults() LinkDTO {
	if d.Icon == "" {
		d.Icon = "mdi-link"
	}
	if d.LinkType == "" {
		d.LinkType = "internal"
	}
	return d
}
