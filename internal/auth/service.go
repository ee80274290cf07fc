package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/intraforms/portal-api/internal/core/events"
	"github.com/intraforms/portal-api/pkg/logger"
)

// Service implements the login/refresh flows on top of the credential
// repository and the token generator.
type Service struct {
	repo       RepositoryAPI
	tokens     TokenGenerator
	bcryptCost int
	bus        *events.EventBus
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, bcryptCost int, bus *events.EventBus) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		bus:        bus,
	}
}

// Authenticate verifies credentials and issues a token pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetActiveUserByUsername(dto.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(user.ID); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}

	s.publish(events.EventLogin, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return result, nil
}

// Refresh validates a refresh token and issues a fresh pair. Roles and
// permissions are reloaded so the new access token reflects assignments made
// since the original login.
func (s *Service) Refresh(refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetActiveUserByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *UserAccount) (*AuthResult, error) {
	roles, err := s.repo.GetRolesForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	perms, err := s.repo.GetPermissionsForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	result := &AuthResult{
		User:        user,
		Roles:       roles,
		Permissions: perms,
	}

	result.Token, err = s.tokens.GenerateAccessToken(user, roleNames(roles), result.PermissionClaims())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	result.RefreshToken, err = s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return result, nil
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
		logger.L().Warn("failed to publish auth event", "event_type", eventType, "error", err)
	}
}
