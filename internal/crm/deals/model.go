package deals

import (
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

// Pipeline stages, in pipeline order.
const (
	StageLead        = "Lead"
	StageQualified   = "Qualified"
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageWon         = "Won"
	StageLost        = "Lost"
)

// Stages lists the pipeline stages in order.
var Stages = []string{StageLead, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}

type Deal struct {
	ID                int       `json:"id"`
	Title             string    `json:"title"`
	Value             float64   `json:"value"`
	Stage             string    `json:"stage"`
	Probability       float64   `json:"probability"`
	ExpectedCloseDate time.Time `json:"expectedCloseDate,omitempty"`
	// Contact is the related contact; the gateway may return a raw id or an
	// expanded {Id, Name} object, normalized here.
	Contact   gateway.Relation `json:"contact,omitzero"`
	CreatedAt time.Time        `json:"createdAt,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt,omitempty"`
}

// Open reports whether the deal still counts toward the pipeline.
func (d Deal) Open() bool {
	return d.Stage != StageWon && d.Stage != StageLost
}

func fromRecord(rec gateway.Record) Deal {
	contact, _ := rec.Relation("contact_id")
	return Deal{
		ID:                rec.ID(),
		Title:             rec.String("title"),
		Value:             rec.Float("value"),
		Stage:             rec.String("stage"),
		Probability:       rec.Float("probability"),
		ExpectedCloseDate: rec.Time("expected_close_date"),
		Contact:           contact,
		CreatedAt:         rec.Time("CreatedOn"),
		UpdatedAt:         rec.Time("ModifiedOn"),
	}
}

func toRecord(d Deal) gateway.Record {
	rec := gateway.Record{
		"Name":        d.Title,
		"title":       d.Title,
		"value":       d.Value,
		"stage":       d.Stage,
		"probability": d.Probability,
	}
	if !d.ExpectedCloseDate.IsZero() {
		rec["expected_close_date"] = d.ExpectedCloseDate.Format("2006-01-02")
	}
	if !d.Contact.Zero() {
		rec["contact_id"] = d.Contact.ID
	}
	if d.ID != 0 {
		rec.SetID(d.ID)
	}
	return rec
}
