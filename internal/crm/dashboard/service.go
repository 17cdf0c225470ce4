// Package dashboard aggregates headline numbers from the other CRM domains
// into a single overview payload.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vertex-crm/vertex-crm/internal/crm/activities"
	"github.com/vertex-crm/vertex-crm/internal/crm/quotes"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// recentActivities caps the feed shown on the overview.
const recentActivities = 10

// PipelineSource reports the total value of open deals.
type PipelineSource interface {
	PipelineValue(ctx context.Context) (float64, error)
}

// TaskSource reports the number of open tasks.
type TaskSource interface {
	OpenCount(ctx context.Context) (int, error)
}

// QuoteSource reports aggregate quote counts and accepted value.
type QuoteSource interface {
	ListStats(ctx context.Context) (quotes.Stats, error)
}

// Overview is the dashboard payload.
type Overview struct {
	ContactCount  int                   `json:"contactCount"`
	OpenTaskCount int                   `json:"openTaskCount"`
	PipelineValue float64               `json:"pipelineValue"`
	Quotes        quotes.Stats          `json:"quotes"`
	Recent        []activities.Activity `json:"recentActivities"`
}

type Service struct {
	gw       gateway.Client
	deals    PipelineSource
	tasks    TaskSource
	quotes   QuoteSource
	activity *activities.Service
	logger   *slog.Logger
}

func NewService(gw gateway.Client, deals PipelineSource, tasks TaskSource, quoteStats QuoteSource, activity *activities.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, deals: deals, tasks: tasks, quotes: quoteStats, activity: activity, logger: logger}
}

// Overview gathers the dashboard numbers. The upstream fetches are independent
// so they run concurrently; the first failure cancels the rest.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.gw.FetchRecords(ctx, gateway.Contacts, gateway.Query{Fields: []string{"Id"}})
		if err != nil {
			return err
		}
		ov.ContactCount = len(records)
		return nil
	})
	g.Go(func() error {
		value, err := s.deals.PipelineValue(ctx)
		if err != nil {
			return err
		}
		ov.PipelineValue = value
		return nil
	})
	g.Go(func() error {
		open, err := s.tasks.OpenCount(ctx)
		if err != nil {
			return err
		}
		ov.OpenTaskCount = open
		return nil
	})
	g.Go(func() error {
		stats, err := s.quotes.ListStats(ctx)
		if err != nil {
			return err
		}
		ov.Quotes = stats
		return nil
	})
	g.Go(func() error {
		page, err := s.activity.List(ctx, activities.ListRequest{Page: 1, PageSize: recentActivities})
		if err != nil {
			return err
		}
		ov.Recent = page.Items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
