package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/listview"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

var fetchFields = []string{
	"Id", "Name", "title", "description", "due_date", "completed",
	"priority", "contact_id", "deal_id", "CreatedOn", "ModifiedOn",
}

// priorityRank orders priorities for sorting; unknown values sort last.
func priorityRank(p string) float64 {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

var taskView = listview.View[Task]{
	SearchText: []func(Task) string{
		func(t Task) string { return t.Title },
		func(t Task) string { return t.Description },
	},
	Status: func(t Task) string {
		if t.Completed {
			return "Completed"
		}
		return "Open"
	},
	SortKeys: map[string]listview.SortKey[Task]{
		"title":    {Kind: listview.Text, Text: func(t Task) string { return t.Title }},
		"due":      {Kind: listview.Date, Date: func(t Task) time.Time { return t.DueDate }},
		"priority": {Kind: listview.Number, Number: func(t Task) float64 { return priorityRank(t.Priority) }},
		"created":  {Kind: listview.Date, Date: func(t Task) time.Time { return t.CreatedAt }},
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

// ListRequest selects the visible page of the task listing. Statuses accepts
// "Open" and "Completed".
type ListRequest struct {
	Query     string
	Statuses  []string
	SortField string
	SortDir   string
	Page      int
	PageSize  int
}

func (s *Service) all(ctx context.Context) ([]Task, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Tasks, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	tasks := make([]Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, fromRecord(rec))
	}
	return tasks, nil
}

// List derives the visible page of tasks.
func (s *Service) List(ctx context.Context, req ListRequest) (listview.Page[Task], error) {
	all, err := s.all(ctx)
	if err != nil {
		return listview.Page[Task]{}, err
	}
	params := listview.Params{
		Query:     req.Query,
		Statuses:  req.Statuses,
		SortField: req.SortField,
		Direction: listview.ParseDirection(req.SortDir),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if params.SortField == "" {
		params.SortField = "due"
		params.Direction = listview.Ascending
	}
	if params.PageSize > 0 {
		if pages := listview.Pages(len(all), params.PageSize); pages > 0 && params.Page > pages {
			params.Page = pages
		}
	}
	return taskView.Apply(all, params), nil
}

// Overdue returns open tasks whose due date has passed.
func (s *Service) Overdue(ctx context.Context) ([]Task, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue := make([]Task, 0)
	for _, t := range all {
		if t.Overdue(now) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

// OpenCount reports the number of tasks not yet completed.
func (s *Service) OpenCount(ctx context.Context) (int, error) {
	all, err := s.all(ctx)
	if err != nil {
		return 0, err
	}
	var open int
	for _, t := range all {
		if !t.Completed {
			open++
		}
	}
	return open, nil
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, id int) (*Task, error) {
	rec, err := s.gw.GetRecordByID(ctx, gateway.Tasks, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	t := fromRecord(rec)
	return &t, nil
}

// Create stores a new task. An empty priority defaults to Medium.
func (s *Service) Create(ctx context.Context, t Task) (*Task, error) {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	result, err := s.gw.CreateRecords(ctx, gateway.Tasks, []gateway.Record{toRecord(t)})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Update replaces the task's stored fields.
func (s *Service) Update(ctx context.Context, t Task) (*Task, error) {
	if err := validate(t); err != nil {
		return nil, err
	}
	result, err := s.gw.UpdateRecords(ctx, gateway.Tasks, []gateway.Record{toRecord(t)})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// SetCompleted toggles the task's completion flag.
func (s *Service) SetCompleted(ctx context.Context, id int, completed bool) (*Task, error) {
	rec := gateway.Record{"completed": completed}
	rec.SetID(id)
	result, err := s.gw.UpdateRecords(ctx, gateway.Tasks, []gateway.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// Delete removes one task.
func (s *Service) Delete(ctx context.Context, id int) error {
	result, err := s.gw.DeleteRecords(ctx, gateway.Tasks, []int{id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return result.Err()
}

func validate(t Task) error {
	var violations []string
	if t.Title == "" {
		violations = append(violations, "title is required")
	}
	if !slices.Contains(Priorities, t.Priority) {
		violations = append(violations, fmt.Sprintf("unknown priority %q", t.Priority))
	}
	if len(violations) > 0 {
		return httpx.Invalid("InvalidTask", violations...)
	}
	return nil
}
