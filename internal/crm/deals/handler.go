package deals

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

// DealRequest is the create/update payload.
type DealRequest struct {
	Title             string  `json:"title" validate:"required"`
	Value             float64 `json:"value" validate:"gte=0"`
	Stage             string  `json:"stage" validate:"required"`
	Probability       float64 `json:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate string  `json:"expectedCloseDate"`
	ContactID         int     `json:"contactId"`
}

func (r DealRequest) deal() Deal {
	d := Deal{
		Title:       r.Title,
		Value:       r.Value,
		Stage:       r.Stage,
		Probability: r.Probability,
		Contact:     gateway.Relation{ID: r.ContactID},
	}
	if r.ExpectedCloseDate != "" {
		if t, err := time.Parse("2006-01-02", r.ExpectedCloseDate); err == nil {
			d.ExpectedCloseDate = t
		}
	}
	return d
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
	r.Get("/deals", h.List)
	r.Get("/deals/stage/{stage}", h.ByStage)
	r.Post("/deals", h.Create)
	r.Get("/deals/{id}", h.Show)
	r.Put("/deals/{id}", h.Update)
	r.Delete("/deals/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	result, err := h.service.List(r.Context(), ListRequest{
		Query:     q.Get("q"),
		Stages:    q["stage"],
		SortField: q.Get("sort"),
		SortDir:   q.Get("dir"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		h.logger.Error("list deals", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"deals":      result.Items,
		"pagination": shared.NewPagination(page, pageSize, result.Total),
	})
}

func (h *Handler) ByStage(w http.ResponseWriter, r *http.Request) {
	deals, err := h.service.ByStage(r.Context(), chi.URLParam(r, "stage"))
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deals": deals})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dealID(w, r)
	if !ok {
		return
	}
	deal, err := h.service.Get(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, deal)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	deal, err := h.service.Create(r.Context(), req.deal())
	if err != nil {
		h.logger.Error("create deal", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, deal)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dealID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	d := req.deal()
	d.ID = id
	deal, err := h.service.Update(r.Context(), d)
	if err != nil {
		h.logger.Error("update deal", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, deal)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dealID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete deal", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (DealRequest, bool) {
	var req DealRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) dealID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid deal id")
		return 0, false
	}
	return id, true
}
