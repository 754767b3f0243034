package models

import "github.com/google/uuid"

// SaleType classifies a sale (e.g. in-store, delivery).
type SaleType struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
}
