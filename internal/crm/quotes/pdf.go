package quotes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vertex-crm/vertex-crm/internal/crm/lineitems"
)

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

func formatCurrency(v float64) string {
	return currencyPrinter.Sprintf("$%.2f", v)
}

// RenderPDF renders the customer-facing quote document.
func RenderPDF(q Quote, items []lineitems.LineItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Quote %s", q.Number), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Quote")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s / %s", q.Number, q.QuoteDate.Format("Jan 2, 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", q.CustomerName))
	pdf.Ln(6)
	if q.CustomerEmail != "" {
		pdf.Cell(0, 6, q.CustomerEmail)
		pdf.Ln(6)
	}
	if !q.ExpirationDate.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Valid until %s", q.ExpirationDate.Format("Jan 2, 2006")))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(80, 7, "Product / Service")
	pdf.Cell(25, 7, "Qty")
	pdf.CellFormat(40, 7, "Unit Price", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Total", "", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.Cell(80, 6, trim(item.ProductOrService, 48))
		pdf.Cell(25, 6, fmt.Sprintf("%g", item.Quantity))
		pdf.CellFormat(40, 6, formatCurrency(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, formatCurrency(item.LineTotal), "", 0, "R", false, 0, "")
		pdf.Ln(6)
		if item.Description != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.Cell(80, 5, trim(item.Description, 60))
			pdf.SetFont("Helvetica", "", 10)
			pdf.Ln(5)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(105, 6, "")
	pdf.Cell(40, 6, "Subtotal")
	pdf.CellFormat(40, 6, formatCurrency(q.Subtotal), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(105, 6, "")
	pdf.Cell(40, 6, fmt.Sprintf("Tax (%g%%)", q.TaxPercent))
	pdf.CellFormat(40, 6, formatCurrency(q.TaxAmount), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	if q.Discounts > 0 {
		pdf.Cell(105, 6, "")
		pdf.Cell(40, 6, "Discount")
		pdf.CellFormat(40, 6, "-"+formatCurrency(q.Discounts), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(105, 7, "")
	pdf.Cell(40, 7, "Grand Total")
	pdf.CellFormat(40, 7, formatCurrency(q.GrandTotal), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if q.Notes != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, q.Notes, "", "L", false)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetY(-20)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", time.Now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
