package activities

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/listview"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

var fetchFields = []string{
	"Id", "Name", "type", "subject", "content", "timestamp",
	"contact_id", "deal_id", "CreatedOn",
}

var activityView = listview.View[Activity]{
	SearchText: []func(Activity) string{
		func(a Activity) string { return a.Subject },
		func(a Activity) string { return a.Content },
	},
	Status: func(a Activity) string { return a.Type },
	SortKeys: map[string]listview.SortKey[Activity]{
		"subject":   {Kind: listview.Text, Text: func(a Activity) string { return a.Subject }},
		"timestamp": {Kind: listview.Date, Date: func(a Activity) time.Time { return a.Timestamp }},
	},
}

type Service struct {
	gw     gateway.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewService(gw gateway.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, logger: logger, now: time.Now}
}

// ListRequest selects the visible page of the activity feed. Types filters by
// activity type.
type ListRequest struct {
	Query    string
	Types    []string
	Page     int
	PageSize int
}

func (s *Service) all(ctx context.Context) ([]Activity, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Activities, gateway.Query{
		Fields:  fetchFields,
		OrderBy: []gateway.Order{{Field: "timestamp", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	acts := make([]Activity, 0, len(records))
	for _, rec := range records {
		acts = append(acts, fromRecord(rec))
	}
	return acts, nil
}

// List derives the visible page of the activity feed, newest first.
func (s *Service) List(ctx context.Context, req ListRequest) (listview.Page[Activity], error) {
	all, err := s.all(ctx)
	if err != nil {
		return listview.Page[Activity]{}, err
	}
	params := listview.Params{
		Query:     req.Query,
		Statuses:  req.Types,
		SortField: "timestamp",
		Direction: listview.Descending,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if params.PageSize > 0 {
		if pages := listview.Pages(len(all), params.PageSize); pages > 0 && params.Page > pages {
			params.Page = pages
		}
	}
	return activityView.Apply(all, params), nil
}

// ByContact returns the activity history for one contact, newest first.
func (s *Service) ByContact(ctx context.Context, contactID int) ([]Activity, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Activities, gateway.Query{
		Fields:  fetchFields,
		Where:   []gateway.Condition{gateway.Equals("contact_id", strconv.Itoa(contactID))},
		OrderBy: []gateway.Order{{Field: "timestamp", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch activities for contact %d: %w", contactID, err)
	}
	acts := make([]Activity, 0, len(records))
	for _, rec := range records {
		acts = append(acts, fromRecord(rec))
	}
	return acts, nil
}

// Get returns one activity.
func (s *Service) Get(ctx context.Context, id int) (*Activity, error) {
	rec, err := s.gw.GetRecordByID(ctx, gateway.Activities, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	a := fromRecord(rec)
	return &a, nil
}

// Log records a new activity. A zero timestamp is stamped with the current
// time.
func (s *Service) Log(ctx context.Context, a Activity) (*Activity, error) {
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	if err := validate(a); err != nil {
		return nil, err
	}
	result, err := s.gw.CreateRecords(ctx, gateway.Activities, []gateway.Record{toRecord(a)})
	if err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Delete removes one activity.
func (s *Service) Delete(ctx context.Context, id int) error {
	result, err := s.gw.DeleteRecords(ctx, gateway.Activities, []int{id})
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return result.Err()
}

func validate(a Activity) error {
	var violations []string
	if a.Subject == "" {
		violations = append(violations, "subject is required")
	}
	if !slices.Contains(Types, a.Type) {
		violations = append(violations, fmt.Sprintf("unknown activity type %q", a.Type))
	}
	if len(violations) > 0 {
		return httpx.Invalid("InvalidActivity", violations...)
	}
	return nil
}
