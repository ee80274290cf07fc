package user

import (
	"context"
	"fmt"
	"time"

	"github.com/intraforms/portal-api/internal/core/events"
	"github.com/intraforms/portal-api/pkg/logger"
)

// PasswordHasher abstracts the bcrypt hashing done by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	bus    *events.EventBus
}

func NewService(repo Repository, hasher PasswordHasher, bus *events.EventBus) *Service {
	return &Service{repo: repo, hasher: hasher, bus: bus}
}

func (s *Service) GetAll() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*UserDetail, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.GetRoles(id)
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}

	perms, err := s.repo.GetPermissions(id)
	if err != nil {
		return nil, fmt.Errorf("get user permissions: %w", err)
	}

	u.Roles = roles
	return &UserDetail{User: u, Roles: roles, Permissions: perms}, nil
}

// Create inserts the user and its role assignments in one transaction; a
// failing role insert leaves no user row behind.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Active:       true,
		DepartmentID: dto.DepartmentID,
	}

	if err := s.repo.CreateWithRoles(u, hash, dto.RoleIDs); err != nil {
		return nil, err
	}

	s.publish(events.EventUserCreated, map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
	})

	return u, nil
}

// Update replaces profile fields and role assignments transactionally. An
// empty password keeps the current hash.
func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	u.Email = dto.Email
	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	u.DepartmentID = dto.DepartmentID
	if dto.Active != nil {
		u.Active = *dto.Active
	}

	var hash string
	if dto.Password != "" {
		hash, err = s.hasher.HashPassword(dto.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.repo.UpdateWithRoles(u, hash, dto.RoleIDs); err != nil {
		return nil, err
	}

	s.publish(events.EventUserUpdated, map[string]interface{}{"user_id": id})
	return u, nil
}

// Delete soft-deletes by clearing the active flag; the row stays in storage.
func (s *Service) Delete(id int64) error {
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	s.publish(events.EventUserDeleted, map[string]interface{}{"user_id": id})
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
		logger.L().Warn("failed to publish user event", "event_type", eventType, "error", err)
	}
}
