package tasks

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

// TaskRequest is the create/update payload.
type TaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	ContactID   int    `json:"contactId"`
	DealID      int    `json:"dealId"`
}

// CompleteRequest toggles a task's completion flag.
type CompleteRequest struct {
	Completed bool `json:"completed"`
}

func (r TaskRequest) task() Task {
	t := Task{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		Contact:     gateway.Relation{ID: r.ContactID},
		Deal:        gateway.Relation{ID: r.DealID},
	}
	if r.DueDate != "" {
		if d, err := time.Parse("2006-01-02", r.DueDate); err == nil {
			t.DueDate = d
		}
	}
	return t
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
	r.Get("/tasks", h.List)
	r.Get("/tasks/overdue", h.Overdue)
	r.Post("/tasks", h.Create)
	r.Get("/tasks/{id}", h.Show)
	r.Put("/tasks/{id}", h.Update)
	r.Post("/tasks/{id}/complete", h.Complete)
	r.Delete("/tasks/{id}", h.Delete)
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
		Statuses:  q["status"],
		SortField: q.Get("sort"),
		SortDir:   q.Get("dir"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tasks":      result.Items,
		"pagination": shared.NewPagination(page, pageSize, result.Total),
	})
}

func (h *Handler) Overdue(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.Overdue(r.Context())
	if err != nil {
		h.logger.Error("overdue tasks", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	task, err := h.service.Create(r.Context(), req.task())
	if err != nil {
		h.logger.Error("create task", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	t := req.task()
	t.ID = id
	task, err := h.service.Update(r.Context(), t)
	if err != nil {
		h.logger.Error("update task", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var req CompleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	task, err := h.service.SetCompleted(r.Context(), id, req.Completed)
	if err != nil {
		h.logger.Error("complete task", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete task", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (TaskRequest, bool) {
	var req TaskRequest
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

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid task id")
		return 0, false
	}
	return id, true
}
