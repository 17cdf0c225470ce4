package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/listview"
)

var fetchFields = []string{
	"Id", "Name", "first_name", "last_name", "email", "phone", "company",
	"position", "address", "emergency_name", "emergency_phone", "Tags",
	"CreatedOn", "ModifiedOn",
}

var contactView = listview.View[Contact]{
	SearchText: []func(Contact) string{
		func(c Contact) string { return c.FullName() },
		func(c Contact) string { return c.Email },
		func(c Contact) string { return c.Company },
	},
	SortKeys: map[string]listview.SortKey[Contact]{
		"name":    {Kind: listview.Text, Text: Contact.FullName},
		"company": {Kind: listview.Text, Text: func(c Contact) string { return c.Company }},
		"email":   {Kind: listview.Text, Text: func(c Contact) string { return c.Email }},
		"created": {Kind: listview.Date, Date: func(c Contact) time.Time { return c.CreatedAt }},
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

// ListRequest selects the visible page of the contact listing.
type ListRequest struct {
	Query     string
	SortField string
	SortDir   string
	Page      int
	PageSize  int
}

func (s *Service) all(ctx context.Context) ([]Contact, error) {
	records, err := s.gw.FetchRecords(ctx, gateway.Contacts, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	contacts := make([]Contact, 0, len(records))
	for _, rec := range records {
		contacts = append(contacts, fromRecord(rec))
	}
	return contacts, nil
}

// List derives the visible page of contacts.
func (s *Service) List(ctx context.Context, req ListRequest) (listview.Page[Contact], error) {
	all, err := s.all(ctx)
	if err != nil {
		return listview.Page[Contact]{}, err
	}
	sortField := req.SortField
	if sortField == "" {
		sortField = "name"
	}
	params := listview.Params{
		Query:     req.Query,
		SortField: sortField,
		Direction: listview.ParseDirection(req.SortDir),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if params.PageSize > 0 {
		if pages := listview.Pages(len(all), params.PageSize); pages > 0 && params.Page > pages {
			params.Page = pages
		}
	}
	return contactView.Apply(all, params), nil
}

// Get returns one contact.
func (s *Service) Get(ctx context.Context, id int) (*Contact, error) {
	rec, err := s.gw.GetRecordByID(ctx, gateway.Contacts, id, gateway.Query{Fields: fetchFields})
	if err != nil {
		return nil, err
	}
	c := fromRecord(rec)
	return &c, nil
}

// Create stores a new contact.
func (s *Service) Create(ctx context.Context, c Contact) (*Contact, error) {
	result, err := s.gw.CreateRecords(ctx, gateway.Contacts, []gateway.Record{toRecord(c)})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	created := fromRecord(result.First())
	return &created, nil
}

// Update replaces the contact's stored fields.
func (s *Service) Update(ctx context.Context, c Contact) (*Contact, error) {
	result, err := s.gw.UpdateRecords(ctx, gateway.Contacts, []gateway.Record{toRecord(c)})
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	updated := fromRecord(result.First())
	return &updated, nil
}

// Delete removes one contact.
func (s *Service) Delete(ctx context.Context, id int) error {
	result, err := s.gw.DeleteRecords(ctx, gateway.Contacts, []int{id})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return result.Err()
}
