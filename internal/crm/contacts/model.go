package contacts

import (
	"strings"
	"time"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
)

type Contact struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`
	Position       string    `json:"position,omitempty"`
	Address        string    `json:"address,omitempty"`
	EmergencyName  string    `json:"emergencyContactName,omitempty"`
	EmergencyPhone string    `json:"emergencyContactNumber,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// FullName joins first and last name for display and record naming.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func fromRecord(rec gateway.Record) Contact {
	return Contact{
		ID:             rec.ID(),
		FirstName:      rec.String("first_name"),
		LastName:       rec.String("last_name"),
		Email:          rec.String("email"),
		Phone:          rec.String("phone"),
		Company:        rec.String("company"),
		Position:       rec.String("position"),
		Address:        rec.String("address"),
		EmergencyName:  rec.String("emergency_name"),
		EmergencyPhone: rec.String("emergency_phone"),
		Tags:           rec.Tags("Tags"),
		CreatedAt:      rec.Time("CreatedOn"),
		UpdatedAt:      rec.Time("ModifiedOn"),
	}
}

func toRecord(c Contact) gateway.Record {
	rec := gateway.Record{
		"Name":            c.FullName(),
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"company":         c.Company,
		"position":        c.Position,
		"address":         c.Address,
		"emergency_name":  c.EmergencyName,
		"emergency_phone": c.EmergencyPhone,
		"Tags":            strings.Join(c.Tags, ","),
	}
	if rec["Name"] == "" {
		rec["Name"] = c.Email
	}
	if c.ID != 0 {
		rec.SetID(c.ID)
	}
	return rec
}
