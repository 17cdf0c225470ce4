package tasks

import (
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Priorities lists the accepted task priorities.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Task struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	DueDate     time.Time        `json:"dueDate,omitempty"`
	Completed   bool             `json:"completed"`
	Priority    string           `json:"priority"`
	Contact     gateway.Relation `json:"contact,omitzero"`
	Deal        gateway.Relation `json:"deal,omitzero"`
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt,omitempty"`
}

// Overdue reports whether the task is past due and still open.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(now)
}

func fromRecord(rec gateway.Record) Task {
	contact, _ := rec.Relation("contact_id")
	deal, _ := rec.Relation("deal_id")
	return Task{
		ID:          rec.ID(),
		Title:       rec.String("title"),
		Description: rec.String("description"),
		DueDate:     rec.Time("due_date"),
		Completed:   rec.Bool("completed"),
		Priority:    rec.String("priority"),
		Contact:     contact,
		Deal:        deal,
		CreatedAt:   rec.Time("CreatedOn"),
		UpdatedAt:   rec.Time("ModifiedOn"),
	}
}

func toRecord(t Task) gateway.Record {
	rec := gateway.Record{
		"Name":        t.Title,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"priority":    t.Priority,
	}
	if !t.DueDate.IsZero() {
		rec["due_date"] = t.DueDate.Format("2006-01-02")
	}
	if !t.Contact.Zero() {
		rec["contact_id"] = t.Contact.ID
	}
	if !t.Deal.Zero() {
		rec["deal_id"] = t.Deal.ID
	}
	if t.ID != 0 {
		rec.SetID(t.ID)
	}
	return rec
}
