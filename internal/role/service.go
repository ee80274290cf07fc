package role

import "fmt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAllActive() ([]Role, error) {
	roles, err := s.repo.GetAllActive()
	if err != nil {
		return nil, fmt.Errorf("get active roles: %w", err)
	}
	return roles, nil
}
