package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDetail is one line of a committed sale. Rows mirror the cart lines
// present at commit time exactly; they are never updated afterwards.
type SaleDetail struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null"`
	LineNo    int             `gorm:"column:line_no;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
}
