package models

import "github.com/google/uuid"

// Category groups catalog products.
type Category struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;not null"`
}
