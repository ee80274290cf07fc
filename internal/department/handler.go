package department

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
	GetAll() ([]Department, error)
	Create(dto CreateDepartmentDTO) (*Department, error)
	Update(id int64, dto CreateDepartmentDTO) (*Department, error)
	Delete(id int64) error
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

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAll()
	if err != nil {
		h.WriteServerError(w, "Failed to fetch departments", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"departments": departments,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	d, err := h.Service.Create(dto)
	if err != nil {
		var validationErr internal.ValidationError
		if errors.As(err, &validationErr) {
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
			return
		}
		h.WriteServerError(w, "Failed to create department", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department created successfully",
		"id":      d.ID,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid department id")
		return
	}

	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.Service.Update(id, dto); err != nil {
		var validationErr internal.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
		case errors.Is(err, ErrNotFound):
			h.WriteError(w, http.StatusNotFound, "Department not found")
		default:
			h.WriteServerError(w, "Failed to update department", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department updated successfully",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid department id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, "Department not found")
			return
		}
		h.WriteServerError(w, "Failed to delete department", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Department deleted successfully",
	})
}
