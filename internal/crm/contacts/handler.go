package contacts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	crmshared "github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
	"github.com/vertex-crm/vertex-crm/internal/shared"
)

// ContactRequest is the create/update payload.
type ContactRequest struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone"`
	Company        string   `json:"company"`
	Position       string   `json:"position"`
	Address        string   `json:"address"`
	EmergencyName  string   `json:"emergencyContactName"`
	EmergencyPhone string   `json:"emergencyContactNumber"`
	Tags           []string `json:"tags"`
}

func (r ContactRequest) contact() Contact {
	return Contact{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Company:        r.Company,
		Position:       r.Position,
		Address:        r.Address,
		EmergencyName:  r.EmergencyName,
		EmergencyPhone: r.EmergencyPhone,
		Tags:           r.Tags,
	}
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
	r.Get("/contacts", h.List)
	r.Get("/contacts/export", h.Export)
	r.Post("/contacts", h.Create)
	r.Get("/contacts/{id}", h.Show)
	r.Put("/contacts/{id}", h.Update)
	r.Delete("/contacts/{id}", h.Delete)
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
		SortField: q.Get("sort"),
		SortDir:   q.Get("dir"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		h.logger.Error("list contacts", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"contacts":   result.Items,
		"pagination": shared.NewPagination(page, pageSize, result.Total),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(r.Context())
	if err != nil {
		h.logger.Error("export contacts", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.csv"`)
	_, _ = w.Write(data)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}
	contact, err := h.service.Get(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	contact, err := h.service.Create(r.Context(), req.contact())
	if err != nil {
		h.logger.Error("create contact", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contact)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	c := req.contact()
	c.ID = id
	contact, err := h.service.Update(r.Context(), c)
	if err != nil {
		h.logger.Error("update contact", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contact)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.contactID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete contact", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ContactRequest, bool) {
	var req ContactRequest
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

func (h *Handler) contactID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contact id")
		return 0, false
	}
	return id, true
}
