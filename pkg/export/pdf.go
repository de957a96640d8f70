package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceSection is one patient's block of the invoice PDF.
type InvoiceSection struct {
	Title string
	Lines [][2]string // test name, amount
	Total string
}

// InvoiceDoc is a tabular invoice: header, one section per entity, running
// grand total at the end.
type InvoiceDoc struct {
	Header     string
	Subheader  string
	Sections   []InvoiceSection
	GrandTotal string
}

// InvoicePDF renders the invoice document in memory.
func InvoicePDF(doc *InvoiceDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.Header, "", 1, "C", false, 0, "")
	if doc.Subheader != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, doc.Subheader, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, section.Title, "B", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range section.Lines {
			pdf.CellFormat(140, 7, line[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, line[1], "", 1, "R", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(140, 7, "Total", "T", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, section.Total, "T", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 9, "Grand Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 9, doc.GrandTotal, "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
