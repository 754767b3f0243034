package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
)

// Meta carries the checkout metadata collected alongside the cart.
type Meta struct {
	ClientID   uuid.UUID
	SaleTypeID uuid.UUID
	CourierID  uuid.UUID
	Discount   decimal.Decimal
}

// CommitResult is returned once the sale is durably persisted.
type CommitResult struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Timestamp time.Time       `json:"timestamp"`
	Total     decimal.Decimal `json:"total"`
}

// Sale bundles a header with its detail rows for reads.
type Sale struct {
	Header  models.SaleHeader  `json:"header"`
	Details []models.SaleDetail `json:"details"`
}

// SaleList is one page of sale headers ordered newest first.
type SaleList struct {
	Sales      []models.SaleHeader `json:"sales"`
	NextCursor string              `json:"next_cursor,omitempty"`
}
