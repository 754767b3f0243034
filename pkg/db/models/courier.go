package models

import "github.com/google/uuid"

// Courier identifies who carries a delivery sale.
type Courier struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
}
