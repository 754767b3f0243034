package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHeader is the immutable record of a committed sale. Total already has
// the discount applied: total = max(0, sum(details.subtotal) - discount).
type SaleHeader struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ClientID   uuid.UUID       `gorm:"column:client_id;type:uuid;not null"`
	SaleTypeID uuid.UUID       `gorm:"column:sale_type_id;type:uuid;not null"`
	CourierID  uuid.UUID       `gorm:"column:courier_id;type:uuid;not null"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	Discount   decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null"`
	Details    []SaleDetail    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
