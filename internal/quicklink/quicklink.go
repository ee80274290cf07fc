package quicklink

import (
	"errors"

	"github.com/intraforms/portal-api/internal"
)

var ErrNotFound = errors.New("quick link not found")

// Link is a portal-wide quick link visible to every authenticated user.
type Link struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Icon       string `json:"icon"`
	URL        string `json:"url"`
	LinkType   string `json:"linkType"`
	OrderIndex int    `json:"orderIndex"`
	Active     bool   `json:"active"`
}

type Repository interface {
	GetAllActive() ([]Link, error)
	Create(l *Link) error
	Update(l *Link) error
	SoftDelete(id int64) error
	Reorder(linkIDs []int64) error
}

type LinkDTO struct {
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	URL      string `json:"url"`
	LinkType string `json:"linkType"`
}

type ReorderDTO struct {
	LinkIDs []int64 `json:"linkIds"`
}

func (d LinkDTO) Validate() error {
	if d.Title == "" || d.URL == "" {
		return internal.ValidationError{Msg: "Title and URL are required"}
	}
	return nil
}

func (d ReorderDTO) Validate() error {
	if len(d.LinkIDs) == 0 {
		return internal.ValidationError{Msg: "Link IDs are required"}
	}
	return nil
}

func (d LinkDTO) withDefaults() LinkDTO {
	if d.Icon == "" {
		d.Icon = "mdi-link"
	}
	if d.LinkType == "" {
		d.LinkType = "internal"
	}
	return d
}
