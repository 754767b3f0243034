package sales

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/metrics"
	"github.com/rmarquez/ventapos-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartReader is the read surface the writer needs from the cart store.
type CartReader interface {
	Lines() []cart.Line
	Subtotal() decimal.Decimal
	IsEmpty() bool
}

// StockObserver is told which products were sold after a successful commit.
type StockObserver interface {
	StockChanged(ctx context.Context, productIDs []uuid.UUID)
}

// Service validates and atomically persists checkouts.
type Service interface {
	Commit(ctx context.Context, cartStore CartReader, meta Meta) (*CommitResult, error)
	GetSale(ctx context.Context, saleID uuid.UUID) (*Sale, error)
	List(ctx context.Context, params pagination.Params) (*SaleList, error)
}

type service struct {
	repo     Repository
	products products.Repository
	clients  clients.Repository
	lookups  lookups.Repository
	tx       txRunner
	observer StockObserver
	metrics  *metrics.SalesMetrics

	committing atomic.Bool
}

// NewService builds the sale transaction writer with its dependencies. The
// observer and metrics are optional.
func NewService(
	repo Repository,
	productRepo products.Repository,
	clientRepo clients.Repository,
	lookupRepo lookups.Repository,
	tx txRunner,
	observer StockObserver,
	salesMetrics *metrics.SalesMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if clientRepo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if lookupRepo == nil {
		return nil, fmt.Errorf("lookup repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		products: productRepo,
		clients:  clientRepo,
		lookups:  lookupRepo,
		tx:       tx,
		observer: observer,
		metrics:  salesMetrics,
	}, nil
}

// Commit validates the cart and metadata, then persists the header and one
// detail per cart line as a single transaction. The caller clears the cart
// only after this returns successfully.
func (s *service) Commit(ctx context.Context, cartStore CartReader, meta Meta) (*CommitResult, error) {
	if cartStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart required")
	}

	// Only one commit may be in flight; a second attempt while the first is
	// pending must not double-charge.
	if !s.committing.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeCommitInProgress, "checkout already in progress")
	}
	defer s.committing.Store(false)

	start := time.Now()
	result, soldProducts, err := s.commit(ctx, cartStore, meta)
	if err != nil {
		s.metrics.ObserveCommit("failure", time.Since(start))
		s.metrics.IncCommitFailure(string(pkgerrors.As(err).Code()))
		return nil, err
	}
	s.metrics.ObserveCommit("success", time.Since(start))
	s.metrics.IncCommitSuccess()

	if s.observer != nil {
		s.observer.StockChanged(ctx, soldProducts)
	}
	return result, nil
}

func (s *service) commit(ctx context.Context, cartStore CartReader, meta Meta) (*CommitResult, []uuid.UUID, error) {
	lines := cartStore.Lines()
	if len(lines) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no lines")
	}

	if err := validateMeta(meta); err != nil {
		return nil, nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	// Callers clamp the discount in the UI; the writer re-validates anyway.
	if meta.Discount.IsNegative() || meta.Discount.GreaterThan(subtotal) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeInvalidDiscount, "discount must be between 0 and the cart subtotal").WithDetails(map[string]any{
			"discount": meta.Discount,
			"subtotal": subtotal,
		})
	}

	total := subtotal.Sub(meta.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	header := &models.SaleHeader{
		ClientID:   meta.ClientID,
		SaleTypeID: meta.SaleTypeID,
		CourierID:  meta.CourierID,
		Total:      total,
		Discount:   meta.Discount,
	}

	soldProducts := make([]uuid.UUID, 0, len(lines))
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		if err := s.checkReferences(ctx, tx, meta); err != nil {
			return err
		}

		// Header first so every detail has an owning row from the start.
		if err := repo.CreateHeader(ctx, header); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert sale header")
		}

		for i, line := range lines {
			detail := &models.SaleDetail{
				SaleID:    header.ID,
				LineNo:    i + 1,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal(),
			}
			if err := repo.CreateDetail(ctx, detail); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert sale detail")
			}

			if err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			soldProducts = append(soldProducts, line.ProductID)
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, nil, typed
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "commit sale")
	}

	return &CommitResult{
		SaleID:    header.ID,
		Timestamp: header.CreatedAt,
		Total:     header.Total,
	}, soldProducts, nil
}

func (s *service) checkReferences(ctx context.Context, tx *gorm.DB, meta Meta) error {
	if _, err := s.clients.WithTx(tx).FindByID(ctx, meta.ClientID); err != nil {
		return referenceError(err, "client")
	}
	lookupRepo := s.lookups.WithTx(tx)
	if _, err := lookupRepo.FindSaleType(ctx, meta.SaleTypeID); err != nil {
		return referenceError(err, "sale type")
	}
	if _, err := lookupRepo.FindCourier(ctx, meta.CourierID); err != nil {
		return referenceError(err, "courier")
	}
	return nil
}

func referenceError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+entity)
}

func validateMeta(meta Meta) error {
	var missing []string
	if meta.ClientID == uuid.Nil {
		missing = append(missing, "clientId")
	}
	if meta.SaleTypeID == uuid.Nil {
		missing = append(missing, "saleTypeId")
	}
	if meta.CourierID == uuid.Nil {
		missing = append(missing, "courierId")
	}
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeMissingField, "required field missing").WithDetails(map[string]any{
		"fields": missing,
	})
}

func (s *service) GetSale(ctx context.Context, saleID uuid.UUID) (*Sale, error) {
	if saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id required")
	}

	header, err := s.repo.FindHeader(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeSaleNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale header")
	}

	details, err := s.repo.FindDetails(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale details")
	}

	return &Sale{Header: *header, Details: details}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*SaleList, error) {
	list, err := s.repo.ListHeaders(ctx, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return list, nil
}
