package role

import (
	"net/http"

	"github.com/intraforms/portal-api/internal/transport"
	"github.com/intraforms/portal-api/pkg/logger"
)

type ServiceAPI interface {
	GetAllActive() ([]Role, error)
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
	roles, err := h.Service.GetAllActive()
	if err != nil {
		h.WriteServerError(w, "Failed to fetch roles", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"roles":   roles,
	})
}
