package contacts

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

var exportHeader = []string{
	"First Name", "Last Name", "Email", "Phone", "Company", "Position", "Tags",
}

// ExportCSV renders the full contact collection as CSV, one row per contact.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	contacts, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range contacts {
		row := []string{
			c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.Position,
			strings.Join(c.Tags, ","),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
