package receipts

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type pdfRenderer struct{}

// NewPDFRenderer renders receipts as single-page A4 PDFs.
func NewPDFRenderer() Renderer {
	return pdfRenderer{}
}

func (pdfRenderer) Format() Format {
	return FormatPDF
}

func (pdfRenderer) Render(receipt *Receipt) (*Artifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", receipt.SaleID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, receipt.Company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if receipt.Company.Address != "" {
		pdf.CellFormat(0, 5, receipt.Company.Address, "", 1, "C", false, 0, "")
	}
	if receipt.Company.Contact != "" {
		pdf.CellFormat(0, 5, receipt.Company.Contact, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range [][2]string{
		{"Sale", receipt.SaleID.String()},
		{"Date", receipt.Timestamp.Format("2006-01-02 15:04")},
		{"Client", receipt.Client},
		{"Type", receipt.SaleType},
		{"Courier", receipt.Courier},
	} {
		pdf.CellFormat(30, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range receipt.Lines {
		pdf.CellFormat(90, 6, line.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, line.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, line.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	writeTotal := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, value, "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", receipt.Subtotal.StringFixed(2), false)
	writeTotal("Discount", "-"+receipt.Discount.StringFixed(2), false)
	writeTotal("TOTAL", receipt.Total.StringFixed(2), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return &Artifact{
		Filename: receiptFilename(receipt, "pdf"),
		MIME:     "application/pdf",
		Data:     buf.Bytes(),
	}, nil
}
