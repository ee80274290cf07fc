package department

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

func (s *Service) GetAll() ([]Department, error) {
	departments, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("get departments: %w", err)
	}
	return departments, nil
}

func (s *Service) Create(dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &Department{Name: dto.Name, Description: dto.Description}
	if err := s.repo.Create(d); err != nil {
		return nil, err
	}

	s.publish(events.EventDeptCreated, map[string]interface{}{
		"department_id": d.ID,
		"name":          d.Name,
	})
	return d, nil
}

func (s *Service) Update(id int64, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &Department{ID: id, Name: dto.Name, Description: dto.Description}
	if err := s.repo.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(events.EventDeptDeleted, map[string]interface{}{"department_id": id})
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
		logger.L().Warn("failed to publish department event", "event_type", eventType, "error", err)
	}
}
