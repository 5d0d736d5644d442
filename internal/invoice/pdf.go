package invoice

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// renderPDF renders a printable PDF for the invoice.
func renderPDF(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice %s", inv.InvoiceNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Billed to: "+inv.ClientName)
	pdf.Ln(6)
	if inv.Email != "" {
		pdf.Cell(0, 6, inv.Email)
		pdf.Ln(6)
	}
	if inv.Address != "" {
		pdf.Cell(0, 6, inv.Address)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Due: "+inv.DueDate.Format("2006-01-02"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+inv.Status)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range inv.Items {
		amount := int(math.Round(item.Quantity * float64(item.UnitPrice)))
		pdf.CellFormat(90, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, formatQuantity(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatCents(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatCents(amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, formatCents(inv.Total()), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatCents formats an amount in cents as a 2-decimal string
func formatCents(cents int) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

// formatQuantity formats a quantity without trailing zeros
func formatQuantity(quantity float64) string {
	return strconv.FormatFloat(quantity, 'f', -1, 64)
}
