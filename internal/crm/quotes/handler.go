package quotes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	crmshared "github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
	"github.com/vertex-crm/vertex-crm/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

type listResponse struct {
	Quotes     []Quote           `json:"quotes"`
	Pagination shared.Pagination `json:"pagination"`
}

type detailResponse struct {
	Quote     *Quote               `json:"quote"`
	LineItems []lineitems.LineItem `json:"lineItems"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	req := ListQuotesRequest{
		Query:     q.Get("q"),
		Statuses:  q["status"],
		SortField: q.Get("sort"),
		SortDir:   q.Get("dir"),
		Page:      page,
		PageSize:  pageSize,
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list quotes", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		Quotes:     result.Items,
		Pagination: shared.NewPagination(page, pageSize, result.Total),
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ListStats(r.Context())
	if err != nil {
		h.logger.Error("quote stats", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	quote, items, err := h.service.GetWithItems(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detailResponse{Quote: quote, LineItems: items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quote, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create quote", slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	var req UpdateQuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quote, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update quote", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete quote", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	quote, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httpx.Problem(w, http.StatusBadRequest, "InvalidStatus", err.Error())
			return
		}
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	quote, err := h.service.Send(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEmptyQuote) {
			httpx.Problem(w, http.StatusBadRequest, "EmptyQuote", "cannot send a quote without line items")
			return
		}
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	invoiceID, err := h.service.ConvertToInvoice(r.Context(), id)
	if err != nil {
		var partial *PartialConversionError
		if errors.As(err, &partial) {
			httpx.JSON(w, http.StatusConflict, map[string]any{
				"title":     "PartiallyConverted",
				"detail":    partial.Error(),
				"invoiceId": partial.InvoiceID,
			})
			return
		}
		h.logger.Error("convert quote", slog.Int("id", id), slog.Any("error", err))
		crmshared.RespondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int{"invoiceId": invoiceID})
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteID(w, r)
	if !ok {
		return
	}
	quote, items, err := h.service.GetWithItems(r.Context(), id)
	if err != nil {
		crmshared.RespondServiceError(w, err)
		return
	}

	pdf, err := RenderPDF(*quote, items)
	if err != nil {
		h.logger.Error("export quote pdf", slog.Int("id", id), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Export Failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", quote.Number+".pdf"))
	_, _ = w.Write(pdf)
}

func (h *Handler) quoteID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quote id")
		return 0, false
	}
	return id, true
}
