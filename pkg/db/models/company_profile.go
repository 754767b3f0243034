package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile is the single-row identity block printed on receipts.
type CompanyProfile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Address   *string   `gorm:"column:address"`
	Contact   *string   `gorm:"column:contact"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
