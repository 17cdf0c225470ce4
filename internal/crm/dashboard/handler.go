package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	crmshared "github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.Overview)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("dashboard overview", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ov)
}
