package activities

import (
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// Activity types.
const (
	TypeCall    = "call"
	TypeEmail   = "email"
	TypeMeeting = "meeting"
	TypeNote    = "note"
)

// Types lists the accepted activity types.
var Types = []string{TypeCall, TypeEmail, TypeMeeting, TypeNote}

type Activity struct {
	ID        int              `json:"id"`
	Type      string           `json:"type"`
	Subject   string           `json:"subject"`
	Content   string           `json:"content,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Contact   gateway.Relation `json:"contact,omitzero"`
	Deal      gateway.Relation `json:"deal,omitzero"`
	CreatedAt time.Time        `json:"createdAt,omitempty"`
}

func fromRecord(rec gateway.Record) Activity {
	contact, _ := rec.Relation("contact_id")
	deal, _ := rec.Relation("deal_id")
	return Activity{
		ID:        rec.ID(),
		Type:      rec.String("type"),
		Subject:   rec.String("subject"),
		Content:   rec.String("content"),
		Timestamp: rec.Time("timestamp"),
		Contact:   contact,
		Deal:      deal,
		CreatedAt: rec.Time("CreatedOn"),
	}
}

func toRecord(a Activity) gateway.Record {
	rec := gateway.Record{
		"Name":    a.Subject,
		"type":    a.Type,
		"subject": a.Subject,
		"content": a.Content,
	}
	if !a.Timestamp.IsZero() {
		rec["timestamp"] = a.Timestamp.Format(time.RFC3339)
	}
	if !a.Contact.Zero() {
		rec["contact_id"] = a.Contact.ID
	}
	if !a.Deal.Zero() {
		rec["deal_id"] = a.Deal.ID
	}
	if a.ID != 0 {
		rec.SetID(a.ID)
	}
	return rec
}
