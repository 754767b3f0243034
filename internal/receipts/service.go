package receipts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/company"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/internal/sales"
	pkgerrors "github.com/rmarquez/ventapos-backend/pkg/errors"
	"github.com/rmarquez/ventapos-backend/pkg/metrics"
)

// Renderer turns a composed receipt into one document format.
type Renderer interface {
	Format() Format
	Render(receipt *Receipt) (*Artifact, error)
}

// Sharer hands a rendered artifact to an external channel (filesystem,
// printer, share sheet). Sharing never mutates the sale.
type Sharer interface {
	Share(ctx context.Context, artifact *Artifact) (string, error)
}

// Service composes receipts from persisted sales. Composing is a pure read;
// composing the same sale twice yields the same document.
type Service interface {
	Compose(ctx context.Context, saleID uuid.UUID) (*Receipt, error)
	Render(ctx context.Context, saleID uuid.UUID, format Format) (*Artifact, error)
	Export(ctx context.Context, saleID uuid.UUID, format Format) (string, error)
}

type service struct {
	sales     sales.Service
	products  products.Repository
	clients   clients.Repository
	lookups   lookups.Repository
	company   company.Repository
	renderers map[Format]Renderer
	sharer    Sharer
	metrics   *metrics.SalesMetrics
}

// NewService builds the receipt composer. The sharer and metrics are optional;
// without a sharer Export is unavailable.
func NewService(
	saleService sales.Service,
	productRepo products.Repository,
	clientRepo clients.Repository,
	lookupRepo lookups.Repository,
	companyRepo company.Repository,
	renderers []Renderer,
	sharer Sharer,
	salesMetrics *metrics.SalesMetrics,
) (Service, error) {
	if saleService == nil {
		return nil, fmt.Errorf("sales service required")
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
	if companyRepo == nil {
		return nil, fmt.Errorf("company repository required")
	}

	byFormat := make(map[Format]Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}

	return &service{
		sales:     saleService,
		products:  productRepo,
		clients:   clientRepo,
		lookups:   lookupRepo,
		company:   companyRepo,
		renderers: byFormat,
		sharer:    sharer,
		metrics:   salesMetrics,
	}, nil
}

func (s *service) Compose(ctx context.Context, saleID uuid.UUID) (*Receipt, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	profile, err := s.company.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company profile")
	}

	receipt := &Receipt{
		SaleID:    sale.Header.ID,
		Timestamp: sale.Header.CreatedAt,
		Company:   *profile,
		Client:    s.clientName(ctx, sale.Header.ClientID),
		SaleType:  s.saleTypeName(ctx, sale.Header.SaleTypeID),
		Courier:   s.courierName(ctx, sale.Header.CourierID),
		Discount:  sale.Header.Discount,
		Total:     sale.Header.Total,
		// The persisted total already has the discount applied.
		Subtotal: sale.Header.Total.Add(sale.Header.Discount),
	}

	receipt.Lines = make([]Line, 0, len(sale.Details))
	for _, detail := range sale.Details {
		receipt.Lines = append(receipt.Lines, Line{
			ProductName: s.productName(ctx, detail.ProductID),
			Quantity:    detail.Quantity,
			UnitPrice:   detail.UnitPrice,
			LineTotal:   detail.Subtotal,
		})
	}
	return receipt, nil
}

func (s *service) Render(ctx context.Context, saleID uuid.UUID, format Format) (*Artifact, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported receipt format").WithDetails(map[string]any{
			"format": string(format),
		})
	}

	receipt, err := s.Compose(ctx, saleID)
	if err != nil {
		return nil, err
	}

	artifact, err := renderer.Render(receipt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt")
	}
	s.metrics.IncReceiptRender(string(format))
	return artifact, nil
}

func (s *service) Export(ctx context.Context, saleID uuid.UUID, format Format) (string, error) {
	if s.sharer == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no share destination configured")
	}

	artifact, err := s.Render(ctx, saleID, format)
	if err != nil {
		return "", err
	}

	location, err := s.sharer.Share(ctx, artifact)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "share receipt")
	}
	return location, nil
}

func (s *service) productName(ctx context.Context, id uuid.UUID) string {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return missingLabel
	}
	return product.Name
}

func (s *service) clientName(ctx context.Context, id uuid.UUID) string {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return missingLabel
	}
	return client.Name
}

func (s *service) saleTypeName(ctx context.Context, id uuid.UUID) string {
	st, err := s.lookups.FindSaleType(ctx, id)
	if err != nil {
		return missingLabel
	}
	return st.Name
}

func (s *service) courierName(ctx context.Context, id uuid.UUID) string {
	courier, err := s.lookups.FindCourier(ctx, id)
	if err != nil {
		return missingLabel
	}
	return courier.Name
}
