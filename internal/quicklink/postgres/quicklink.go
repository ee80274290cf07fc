package postgres

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	linkDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/link"
	"github.com/intraforms/portal-api/internal/quicklink"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) quicklink.Repository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) GetAllActive() ([]quicklink.Link, error) {
	var links []quicklink.Link
	err := r.db.Raw(`
		SELECT id, title, icon, url, link_type AS link_type,
		       order_index AS order_index, active
		FROM quick_links
		WHERE active = ?
		ORDER BY order_index`, true).Scan(&links).Error
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []quicklink.Link{}
	}
	return links, nil
}

// Create inserts the link at the end of the display order; the order lookup
// and insert share a transaction so concurrent creates cannot collide.
func (r *LinkRepository) Create(l *quicklink.Link) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxOrder sql.NullInt64
		if err := tx.Raw(`SELECT MAX(order_index) FROM quick_links`).Scan(&maxOrder).Error; err != nil {
			return err
		}
		order := 1
		if maxOrder.Valid {
			order = int(maxOrder.Int64) + 1
		}

		row := &linkDatamodel.QuickLink{
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
		return nil
	})
}

// Update edits link fields; only active links are updatable.
func (r *LinkRepository) Update(l *quicklink.Link) error {
	result := r.db.Model(&linkDatamodel.QuickLink{}).
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
		return quicklink.ErrNotFound
	}
	return nil
}

func (r *LinkRepository) SoftDelete(id int64) error {
	result := r.db.Model(&linkDatamodel.QuickLink{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return quicklink.ErrNotFound
	}
	return nil
}

func (r *LinkRepository) Reorder(linkIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range linkIDs {
			err := tx.Model(&linkDatamodel.QuickLink{}).
				Where("id = ?", id).
				Update("order_index", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
