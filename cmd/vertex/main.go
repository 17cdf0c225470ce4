package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/app"
	"github.com/vertex-crm/vertex-crm/internal/crm/activities"
	"github.com/vertex-crm/vertex-crm/internal/crm/contacts"
	"github.com/vertex-crm/vertex-crm/internal/crm/dashboard"
	"github.com/vertex-crm/vertex-crm/internal/crm/deals"
	"github.com/vertex-crm/vertex-crm/internal/crm/invoices"
	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
	"github.com/vertex-crm/vertex-crm/internal/crm/quotes"
	"github.com/vertex-crm/vertex-crm/internal/crm/tasks"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/cache"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var gw gateway.Client
	switch cfg.GatewayMode {
	case app.GatewayModeMemory:
		logger.Info("using in-memory gateway")
		gw = gateway.NewMemory()
	default:
		gw = gateway.NewHTTPClient(gateway.HTTPConfig{
			BaseURL:   cfg.GatewayBaseURL,
			ProjectID: cfg.GatewayProjectID,
			PublicKey: cfg.GatewayPublicKey,
			Timeout:   cfg.GatewayTimeout,
		}, logger)
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, list cache disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			gw = gateway.NewCachedLists(gw, rdb, cfg.ListCacheTTL, logger)
		}
	}

	contactService := contacts.NewService(gw, logger)
	dealService := deals.NewService(gw, logger)
	taskService := tasks.NewService(gw, logger)
	activityService := activities.NewService(gw, logger)

	quoteRepo := quotes.NewRepository(gw)
	lineRepo := lineitems.NewRepository(gw)
	quoteService := quotes.NewService(quoteRepo, lineRepo, logger)
	lineService := lineitems.NewService(lineRepo, logger)
	lineService.SetTotalsUpdater(quoteService)

	invoiceService := invoices.NewService(gw, logger)
	quoteService.SetInvoiceConverter(invoiceService)

	dashboardService := dashboard.NewService(gw, dealService, taskService, quoteService, activityService, logger)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,

		ContactsHandler:   contacts.NewHandler(logger, contactService),
		DealsHandler:      deals.NewHandler(logger, dealService),
		TasksHandler:      tasks.NewHandler(logger, taskService),
		ActivitiesHandler: activities.NewHandler(logger, activityService),
		QuotesHandler:     quotes.NewHandler(logger, quoteService),
		LineItemsHandler:  lineitems.NewHandler(logger, lineService),
		InvoicesHandler:   invoices.NewHandler(logger, invoiceService),
		DashboardHandler:  dashboard.NewHandler(logger, dashboardService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
