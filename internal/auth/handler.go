package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/intraforms/portal-api/internal"
	"github.com/intraforms/portal-api/internal/transport"
	"github.com/intraforms/portal-api/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.Authenticate(dto)
	if err != nil {
		var validationErr internal.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
		case errors.Is(err, ErrInvalidCredentials):
			h.Logger.Warn("login failed", "username", dto.Username)
			h.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.WriteServerError(w, "Failed to login", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// Refresh expects the refresh token in the Authorization header, the same
// bearer framing the access token uses elsewhere.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.ExtractTokenFromHeader(r)
	if refreshToken == "" {
		h.WriteError(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	result, err := h.Service.Refresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			h.WriteError(w, http.StatusUnauthorized, "User not found")
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
			h.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			h.WriteServerError(w, "Failed to refresh token", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

// AuthMiddleware validates the access token and stores the decoded principal
// in the request context. Authorization decisions downstream run against the
// token claims, not the database.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), claims.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
