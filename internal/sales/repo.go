package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/pagination"
)

// Repository persists and reads sale rows. CreateHeader assigns the generated
// sale id and timestamp; callers never choose either.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateHeader(ctx context.Context, header *models.SaleHeader) error
	CreateDetail(ctx context.Context, detail *models.SaleDetail) error
	FindHeader(ctx context.Context, saleID uuid.UUID) (*models.SaleHeader, error)
	FindDetails(ctx context.Context, saleID uuid.UUID) ([]models.SaleDetail, error)
	ListHeaders(ctx context.Context, params pagination.Params) (*SaleList, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sales repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateHeader(ctx context.Context, header *models.SaleHeader) error {
	if header.ID == uuid.Nil {
		header.ID = uuid.New()
	}
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	// Details are inserted row by row after the header.
	return r.db.WithContext(ctx).Omit("Details").Create(header).Error
}

func (r *repository) CreateDetail(ctx context.Context, detail *models.SaleDetail) error {
	if detail.ID == uuid.Nil {
		detail.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *repository) FindHeader(ctx context.Context, saleID uuid.UUID) (*models.SaleHeader, error) {
	var header models.SaleHeader
	if err := r.db.WithContext(ctx).First(&header, "id = ?", saleID).Error; err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *repository) FindDetails(ctx context.Context, saleID uuid.UUID) ([]models.SaleDetail, error) {
	var details []models.SaleDetail
	if err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("line_no ASC").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repository) ListHeaders(ctx context.Context, params pagination.Params) (*SaleList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.SaleHeader{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination cursor")
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var headers []models.SaleHeader
	if err := query.Find(&headers).Error; err != nil {
		return nil, err
	}

	list := &SaleList{Sales: headers}
	if len(headers) > limit {
		list.Sales = headers[:limit]
		last := list.Sales[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}
