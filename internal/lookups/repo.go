package lookups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
)

// Repository reads the classification tables referenced by sales and products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSaleType(ctx context.Context, id uuid.UUID) (*models.SaleType, error)
	ListSaleTypes(ctx context.Context) ([]models.SaleType, error)
	CreateSaleType(ctx context.Context, st *models.SaleType) error
	FindCourier(ctx context.Context, id uuid.UUID) (*models.Courier, error)
	ListCouriers(ctx context.Context) ([]models.Courier, error)
	CreateCourier(ctx context.Context, c *models.Courier) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a lookup repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindSaleType(ctx context.Context, id uuid.UUID) (*models.SaleType, error) {
	var st models.SaleType
	if err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *repository) ListSaleTypes(ctx context.Context) ([]models.SaleType, error) {
	var list []models.SaleType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) CreateSaleType(ctx context.Context, st *models.SaleType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *repository) FindCourier(ctx context.Context, id uuid.UUID) (*models.Courier, error) {
	var c models.Courier
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListCouriers(ctx context.Context) ([]models.Courier, error) {
	var list []models.Courier
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) CreateCourier(ctx context.Context, c *models.Courier) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}
