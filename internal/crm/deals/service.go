package deals

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/crm/shared"
	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/listview"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

var fetchFields = []string{
	"Id", "Name", "title", "value", "stage", "probability",
	"expected_close_date", "contact_id", "CreatedOn", "ModifiedOn",
}

var dealView = listview.View[Deal]{
	SearchText: []func(Deal) string{
		func(d Deal) string { return d.Title },
		func(d Deal) string { return d.Contact.Name },
	},
	Status: func(d Deal) string { return d.Stage },
	SortKeys: map[string]listview.SortKey[Deal]{
		"title":   {Kind: listview.Text, Text: func(d Deal) string { return d.Title }},
		"value":   {Kind: listview.Number, Number: func(d Deal) float64 { return d.Value }},
		"close":   {Kind: listview.Date, Date: func(d Deal) time.Time { return d.ExpectedCloseDate }},
		"created": {Kind: listview.Date, Date: func(d Deal) time.Time { return d.CreatedAt }},
	},
}

type Service struct {
	gw     gateway.Client
	logger *slog.Logger
}

func NewService(gw gateway.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, logger: logger}
}

// ListRequest selects the visible page of the deal listing. Stages reuses the
// status membership filter.
type ListRequest struct {
	Query     string
	Stages    []string
	SortField string
	SortDir   string
	Page      int
	PageSize  int
}

func (s *Service) all(ctx context.Context) ([]Deal, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Deals, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, fmt.Errorf("fetch deals: %w", err)
	}
	deals := make([]Deal, 0, len(records))
	for _, rec := range records {
		deals = append(deals, fromRecord(rec))
	}
	return deals, nil
}

// List derives the visible page of deals.
func (s *Service) List(ctx context.Context, req ListRequest) (listview.Page[Deal], error) {
	all, err := s.all(ctx)
	if err != nil {
		return listview.Page[Deal]{}, err
	}
	params := listview.Params{
		Query:     req.Query,
		Statuses:  req.Stages,
		SortField: req.SortField,
		Direction: listview.ParseDirection(req.SortDir),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if params.SortField == "" {
		params.SortField = "created"
		params.Direction = listview.Descending
	}
	if params.PageSize > 0 {
		if pages := listview.Pages(len(all), params.PageSize); pages > 0 && params.Page > pages {
			params.Page = pages
		}
	}
	return dealView.Apply(all, params), nil
}

// ByStage returns the deals currently in one pipeline stage.
func (s *Service) ByStage(ctx context.Context, stage string) ([]Deal, error) {
	if !slices.Contains(Stages, stage) {
		return nil, httpx.Invalid("InvalidStage", fmt.Sprintf("unknown stage %q", stage))
	}
	records, err := s.gw.FetchRecords(ctx, gateway.Deals, gateway.Query{
		Fields: fetchFields,
		Where:  []gateway.Condition{gateway.Equals("stage", stage)},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch deals by stage: %w", err)
	}
	deals := make([]Deal, 0, len(records))
	for _, rec := range records {
		deals = append(deals, fromRecord(rec))
	}
	return deals, nil
}

// PipelineValue sums the value of open deals.
func (s *Service) PipelineValue(ctx context.Context) (float64, error) {
	all, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, d := range all {
		if d.Open() {
			total += d.Value
		}
	}
	return shared.Round2(total), nil
}

// Get returns one deal.
func (s *Service) Get(ctx context.Context, id int) (*Deal, error) {
	rec, err := s.gw.GetRecordByID(ctx, gateway.Deals, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	d := fromRecord(rec)
	return &d, nil
}

// Create stores a new deal.
func (s *Service) Create(ctx context.Context, d Deal) (*Deal, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	result, err := s.gw.CreateRecords(ctx, gateway.Deals, []gateway.Record{toRecord(d)})
	if err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Update replaces the deal's stored fields.
func (s *Service) Update(ctx context.Context, d Deal) (*Deal, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	result, err := s.gw.UpdateRecords(ctx, gateway.Deals, []gateway.Record{toRecord(d)})
	if err != nil {
		return nil, fmt.Errorf("update deal: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// Delete removes one deal.
func (s *Service) Delete(ctx context.Context, id int) error {
	result, err := s.gw.DeleteRecords(ctx, gateway.Deals, []int{id})
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	return result.Err()
}

func validate(d Deal) error {
	var violations []string
	if d.Title == "" {
		violations = append(violations, "title is required")
	}
	if d.Value < 0 {
		violations = append(violations, "value must not be negative")
	}
	if !slices.Contains(Stages, d.Stage) {
		violations = append(violations, fmt.Sprintf("unknown stage %q", d.Stage))
	}
	if d.Probability < 0 || d.Probability > 100 {
		violations = append(violations, "probability must be between 0 and 100")
	}
	if len(violations) > 0 {
		return httpx.Invalid("InvalidDeal", violations...)
	}
	return nil
}
