package activities

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	crmshared "github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
	"github.com/vertex-crm/vertex-crm/internal/shared"
)

// ActivityRequest is the create payload.
type ActivityRequest struct {
	Type      string `json:"type" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	ContactID int    `json:"contactId"`
	DealID    int    `json:"dealId"`
}

func (r ActivityRequest) activity() Activity {
	a := Activity{
		Type:    r.Type,
		Subject: r.Subject,
		Content: r.Content,
		Contact: gateway.Relation{ID: r.ContactID},
		Deal:    gateway.Relation{ID: r.DealID},
	}
	if r.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, r.Timestamp); err == nil {
			a.Timestamp = t
		}
	}
	return a
}

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/activities", h.List)
	r.Post("/activities", h.Create)
	r.Get("/activities/{id}", h.Show)
	r.Delete("/activities/{id}", h.Delete)
	r.Get("/contacts/{id}/activities", h.ByContact)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	result, err := h.service.List(r.Context(), ListRequest{
		Query:    q.Get("q"),
		Types:    q["type"],
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("list activities", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"activities": result.Items,
		"pagination": shared.NewPagination(page, pageSize, result.Total),
	})
}

func (h *Handler) ByContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}
	acts, err := h.service.ByContact(r.Context(), id)
	if err != nil {
		h.logger.Error("contact activities", slog.Int("contactId", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"activities": acts})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}
	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, activity)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	activity, err := h.service.Log(r.Context(), req.activity())
	if err != nil {
		h.logger.Error("create activity", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, activity)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.activityID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete activity", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activityID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}
