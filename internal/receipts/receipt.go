package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquez/ventapos-backend/internal/company"
)

// missingLabel substitutes for any referenced record that no longer resolves.
// A deleted product or client must never block printing a receipt.
const missingLabel = "N/A"

// Line is one printed receipt row, resolved from a persisted sale detail.
type Line struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Receipt is the fully resolved document for one committed sale. Subtotal is
// reconstructed as total plus discount so the printed arithmetic always adds
// up even if catalog prices changed after the sale.
type Receipt struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Timestamp time.Time       `json:"timestamp"`
	Company   company.Profile `json:"company"`
	Client    string          `json:"client"`
	SaleType  string          `json:"sale_type"`
	Courier   string          `json:"courier"`
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// Format selects a rendering backend.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
)

// Artifact is a rendered receipt document ready to share or store.
type Artifact struct {
	Filename string
	MIME     string
	Data     []byte
}
