package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
)

// Profile is the resolved identity block consumed by the receipt composer.
type Profile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

// Repository reads and updates the single company profile row.
type Repository interface {
	Get(ctx context.Context) (*Profile, error)
	Upsert(ctx context.Context, profile Profile) error
}

type repository struct {
	db       *gorm.DB
	fallback Profile
}

// NewRepository builds the company repository. The fallback profile is used
// until the table is seeded so receipts always carry an identity block.
func NewRepository(db *gorm.DB, fallback Profile) Repository {
	return &repository{db: db, fallback: fallback}
}

func (r *repository) Get(ctx context.Context) (*Profile, error) {
	var row models.CompanyProfile
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fallback := r.fallback
		return &fallback, nil
	}
	if err != nil {
		return nil, err
	}

	profile := Profile{Name: row.Name}
	if row.Address != nil {
		profile.Address = *row.Address
	}
	if row.Contact != nil {
		profile.Contact = *row.Contact
	}
	return &profile, nil
}

func (r *repository) Upsert(ctx context.Context, profile Profile) error {
	var row models.CompanyProfile
	err := r.db.WithContext(ctx).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.CompanyProfile{
			ID:      uuid.New(),
			Name:    profile.Name,
			Address: optional(profile.Address),
			Contact: optional(profile.Contact),
		}
		return r.db.WithContext(ctx).Create(&row).Error
	case err != nil:
		return err
	}

	return r.db.WithContext(ctx).Model(&row).Updates(map[string]any{
		"name":    profile.Name,
		"address": optional(profile.Address),
		"contact": optional(profile.Contact),
	}).Error
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
