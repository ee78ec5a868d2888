// Package document renders invoices as PDF files.
package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/hassan3301/dailycrm/internal/domain"
)

const dateLayout = "January 2, 2006"

// PDFRenderer renders one-page A4 invoices.
type PDFRenderer struct {
	company  string
	compress bool
}

// NewPDFRenderer creates a renderer that signs invoices with company.
func NewPDFRenderer(company string) *PDFRenderer {
	return &PDFRenderer{company: company, compress: true}
}

// RenderInvoice returns the PDF bytes for inv billed to contact.
func (r *PDFRenderer) RenderInvoice(ctx context.Context, inv *domain.Invoice, contact *domain.Contact) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(fmt.Sprintf("Invoice #%d", inv.ID), true)
	pdf.SetAuthor(r.company, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(r.company), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Invoice #%d", inv.ID), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{contact.Name, contact.Company, contact.Email, contact.Phone} {
		if line != "" {
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	if !inv.IssueDate.IsZero() {
		row("Issue date", inv.IssueDate.Format(dateLayout))
	}
	row("Due date", inv.DueDate.Format(dateLayout))
	row("Status", inv.Status.String())
	pdf.Ln(6)

	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 9, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	desc := inv.Notes
	if desc == "" {
		desc = "Services"
	}
	pdf.CellFormat(120, 9, tr(desc), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, "$"+inv.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 9, "$"+inv.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(0, 6, "Thank you for your business!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %d: %w", inv.ID, err)
	}
	return buf.Bytes(), nil
}
