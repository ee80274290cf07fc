package quicklink

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
	GetAllActive() ([]Link, error)
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

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	links, err := h.Service.GetAllActive()
	if err != nil {
		h.WriteServerError(w, "Failed to fetch quick links", err)
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
		h.WriteServerError(w, "Failed to create quick link", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Quick link created",
		"id":      l.ID,
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
			h.WriteError(w, http.StatusNotFound, "Quick link not found")
		default:
			h.WriteServerError(w, "Failed to update quick link", err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Quick link updated",
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
			h.WriteError(w, http.StatusNotFound, "Quick link not found")
			return
		}
		h.WriteServerError(w, "Failed to delete quick link", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Quick link deleted",
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
		h.WriteServerError(w, "Failed to reorder quick links", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Quick links reordered",
	})
}
