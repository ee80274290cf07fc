package deptlink

import (
	"context"
	"fmt"
	"time"

	"github.com/intraforms/portal-api/internal/core/events"
	"github.com/intraforms/portal-api/pkg/logger"
)

type Service struct {
	repo Repository
	bus  *events.EventBus
}

func NewService(repo Repository, bus *events.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// GetForDepartment lists the active links assigned to one department,
// ordered for display. Callers without a department see nothing.
func (s *Service) GetForDepartment(departmentID *int64) ([]Link, error) {
	if departmentID == nil {
		return []Link{}, nil
	}
	links, err := s.repo.GetForDepartment(*departmentID)
	if err != nil {
		return nil, fmt.Errorf("get department links: %w", err)
	}
	return links, nil
}

func (s *Service) GetAllWithDepartments() ([]LinkWithDepartments, error) {
	links, err := s.repo.GetAllWithDepartments()
	if err != nil {
		return nil, fmt.Errorf("get all department links: %w", err)
	}
	return links, nil
}

func (s *Service) Create(dto LinkDTO) (*Link, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	dto = dto.withDefaults()

	l := &Link{
		Title:    dto.Title,
		Icon:     dto.Icon,
		URL:      dto.URL,
		LinkType: dto.LinkType,
	}
	if err := s.repo.CreateWithAssignments(l, dto.DepartmentIDs); err != nil {
		return nil, err
	}

	s.publish(events.EventLinkCreated, map[string]interface{}{
		"link_id": l.ID,
		"title":   l.Title,
		"kind":    "department",
	})
	return l, nil
}

func (s *Service) Update(id int64, dto LinkDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	dto = dto.withDefaults()

	l := &Link{
		ID:       id,
		Title:    dto.Title,
		Icon:     dto.Icon,
		URL:      dto.URL,
		LinkType: dto.LinkType,
	}
	return s.repo.UpdateWithAssignments(l, dto.DepartmentIDs)
}

func (s *Service) Delete(id int64) error {
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	s.publish(events.EventLinkDeleted, map[string]interface{}{
		"link_id": id,
		"kind":    "department",
	})
	return nil
}

// Reorder assigns sequential order values starting at 1 in the given order.
func (s *Service) Reorder(dto ReorderDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if err := s.repo.Reorder(dto.LinkIDs); err != nil {
		return err
	}
	s.publish(events.EventLinksReordered, map[string]interface{}{
		"link_ids": dto.LinkIDs,
		"kind":     "department",
	})
	return nil
}

func (s *Service) publish(eventType string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	event := events.BaseEvent{
		ID:        fmt.Sprintf("%s-%d", eventType, time.Now().UnixNano()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		logger.L().Warn("failed to publish link event", "event_type", eventType, "error", err)
	}
}
