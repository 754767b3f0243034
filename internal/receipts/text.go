package receipts

import (
	"fmt"
	"strings"
)

// lineWidth matches a 42-column thermal printer.
const lineWidth = 42

type textRenderer struct{}

// NewTextRenderer renders receipts as fixed-width plain text.
func NewTextRenderer() Renderer {
	return textRenderer{}
}

func (textRenderer) Format() Format {
	return FormatText
}

func (textRenderer) Render(receipt *Receipt) (*Artifact, error) {
	var b strings.Builder

	writeCentered(&b, receipt.Company.Name)
	if receipt.Company.Address != "" {
		writeCentered(&b, receipt.Company.Address)
	}
	if receipt.Company.Contact != "" {
		writeCentered(&b, receipt.Company.Contact)
	}
	writeRule(&b)

	writeKeyValue(&b, "Sale", shortID(receipt.SaleID.String()))
	writeKeyValue(&b, "Date", receipt.Timestamp.Format("2006-01-02 15:04"))
	writeKeyValue(&b, "Client", receipt.Client)
	writeKeyValue(&b, "Type", receipt.SaleType)
	writeKeyValue(&b, "Courier", receipt.Courier)
	writeRule(&b)

	for _, line := range receipt.Lines {
		b.WriteString(truncate(line.ProductName, lineWidth))
		b.WriteByte('\n')
		qty := fmt.Sprintf("%d x %s", line.Quantity, line.UnitPrice.StringFixed(2))
		writeKeyValue(&b, "  "+qty, line.LineTotal.StringFixed(2))
	}
	writeRule(&b)

	writeKeyValue(&b, "Subtotal", receipt.Subtotal.StringFixed(2))
	writeKeyValue(&b, "Discount", "-"+receipt.Discount.StringFixed(2))
	writeKeyValue(&b, "TOTAL", receipt.Total.StringFixed(2))

	return &Artifact{
		Filename: receiptFilename(receipt, "txt"),
		MIME:     "text/plain; charset=utf-8",
		Data:     []byte(b.String()),
	}, nil
}

func writeCentered(b *strings.Builder, text string) {
	text = truncate(text, lineWidth)
	pad := (lineWidth - len(text)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(text)
	b.WriteByte('\n')
}

func writeRule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", lineWidth))
	b.WriteByte('\n')
}

func writeKeyValue(b *strings.Builder, key, value string) {
	gap := lineWidth - len(key) - len(value)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(key)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(value)
	b.WriteByte('\n')
}

func truncate(text string, width int) string {
	if len(text) <= width {
		return text
	}
	return text[:width]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func receiptFilename(receipt *Receipt, ext string) string {
	return fmt.Sprintf("receipt-%s.%s", receipt.SaleID, ext)
}
