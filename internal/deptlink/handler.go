package deptlink

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/intraforms/portal-api/internal"
	"github.com/intraforms/portal-api/internal/transport"
	"github.com/intraforms/portal-api/pkg/logger"
)

type ServiceAPI interface {
	GetForDepartment(departmentID *int64) ([]Link, error)
	GetAllWithDepartments() ([]LinkWithDepartments, error)
	Create(dto LinkDTO) (*Link, error)
	Update(id int64, dto LinkDTO) error
	Delete(id int64) error
	Reorder(dto ReorderDTO) error
}

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

// GetAll returns the links visible to the caller's department, taken from
// the department_id claim. No department claim means an empty list, not an
// error.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || principal == nil {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	links, err := h.Service.GetForDepartment(principal.DepartmentID)
	if err != nil {
		h.WriteServerError(w, "Failed to fetch department links", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"links":   links,
	})
}

func (h *Handler) GetAllWithDepartments(w http.ResponseWriter, r *http.Request) {
	links, err := h.Service.GetAllWithDepartments()
	if err != nil {
		h.WriteServerError(w, "Failed to fetch department links", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"links":   links,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto LinkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := h.Service.Create(dto)
	if err != nil {
		var validationErr internal.ValidationError
		if errors.As(err, &validationErr) {
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
			return
		}
		h.WriteServerError(w, "Failed to create department link", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department link created successfully",
		"linkId":  l.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid link id")
		return
	}

	var dto LinkDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Update(id, dto); err != nil {
		var validationErr internal.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
		case errors.Is(err, ErrNotFound):
			h.WriteError(w, http.StatusNotFound, "Department link not found")
		default:
			h.WriteServerError(w, "Failed to update department link", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department link updated successfully",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid link id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "Department link not found")
			return
		}
		h.WriteServerError(w, "Failed to delete department link", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department link deleted successfully",
	})
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var dto ReorderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Reorder(dto); err != nil {
		var validationErr internal.ValidationError
		if errors.As(err, &validationErr) {
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
			return
		}
		h.WriteServerError(w, "Failed to reorder department links", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department links reordered successfully",
	})
}
