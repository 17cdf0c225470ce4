package lineitems

import (
	"context"
	"fmt"
	"log/slog"
)

// TotalsUpdater is the owning quote's totals-changed callback: it recomputes
// and persists the quote's totals from its current line items.
type TotalsUpdater interface {
	RecomputeTotals(ctx context.Context, quoteID int) error
}

// Service coordinates line item edits: validation through the Store, then
// persistence, then the owning quote's totals recompute synchronously
// before the call returns.
type Service struct {
	repo    *Repository
	updater TotalsUpdater
	logger  *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// SetTotalsUpdater wires the owning quote service in. Constructed after this
// service because the dependency runs both ways at the edges.
func (s *Service) SetTotalsUpdater(u TotalsUpdater) { s.updater = u }

// ByQuote lists the quote's line items.
func (s *Service) ByQuote(ctx context.Context, quoteID int) ([]LineItem, error) {
	return s.repo.ByQuote(ctx, quoteID)
}

// Add validates and persists a new line item for the quote.
func (s *Service) Add(ctx context.Context, quoteID int, item LineItem) (*LineItem, error) {
	existing, err := s.repo.ByQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	store := NewStore(existing, nil)
	validated, err := store.Add(item)
	if err != nil {
		return nil, err
	}
	validated.ID = 0 // the gateway assigns ids
	validated.QuoteID = quoteID

	created, err := s.repo.Create(ctx, validated)
	if err != nil {
		return nil, err
	}
	return created, s.totalsChanged(ctx, quoteID)
}

// Update applies a single field edit to a line item.
func (s *Service) Update(ctx context.Context, id int, field, value string) (*LineItem, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	store := NewStore([]LineItem{*existing}, nil)
	edited, err := store.Update(id, field, value)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, edited)
	if err != nil {
		return nil, err
	}
	return updated, s.totalsChanged(ctx, existing.QuoteID)
}

// Remove deletes a line item and recomputes the owning quote's totals.
func (s *Service) Remove(ctx context.Context, id int) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.totalsChanged(ctx, existing.QuoteID)
}

func (s *Service) totalsChanged(ctx context.Context, quoteID int) error {
	if s.updater == nil || quoteID == 0 {
		return nil
	}
	if err := s.updater.RecomputeTotals(ctx, quoteID); err != nil {
		return fmt.Errorf("recompute quote totals: %w", err)
	}
	return nil
}
