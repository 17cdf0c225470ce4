package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vertex-crm/vertex-crm/internal/crm/activities"
	"github.com/vertex-crm/vertex-crm/internal/crm/contacts"
	"github.com/vertex-crm/vertex-crm/internal/crm/dashboard"
	"github.com/vertex-crm/vertex-crm/internal/crm/deals"
	"github.com/vertex-crm/vertex-crm/internal/crm/invoices"
	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/crm/quotes"
	"github.com/vertex-crm/vertex-crm/internal/crm/tasks"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	ContactsHandler   *contacts.Handler
	DealsHandler      *deals.Handler
	TasksHandler      *tasks.Handler
	ActivitiesHandler *activities.Handler
	QuotesHandler     *quotes.Handler
	LineItemsHandler  *lineitems.Handler
	InvoicesHandler   *invoices.Handler
	DashboardHandler  *dashboard.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.ContactsHandler.MountRoutes(r)
		params.DealsHandler.MountRoutes(r)
		params.TasksHandler.MountRoutes(r)
		params.ActivitiesHandler.MountRoutes(r)
		params.QuotesHandler.MountRoutes(r)
		params.LineItemsHandler.MountRoutes(r)
		params.InvoicesHandler.MountRoutes(r)
		params.DashboardHandler.MountRoutes(r)
	})

	return r
}
