package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/pkg/db/models"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

// Alert describes a product whose stock fell to or below the threshold.
type Alert struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

// Notifier delivers one alert to a channel. Delivery failures never affect
// the sale that triggered the check.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Service watches stock levels after sales and fans alerts out to notifiers.
type Service interface {
	// StockChanged is invoked after a committed sale with the sold products.
	StockChanged(ctx context.Context, productIDs []uuid.UUID)
	// CheckAll sweeps the whole catalog, used at startup and on demand.
	CheckAll(ctx context.Context) ([]Alert, error)
}

type service struct {
	products  products.Repository
	notifiers []Notifier
	threshold int
	logger    *logger.Logger
}

// NewService builds the low-stock watcher.
func NewService(productRepo products.Repository, threshold int, logg *logger.Logger, notifiers ...Notifier) (Service, error) {
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if threshold < 0 {
		threshold = 0
	}
	return &service{
		products:  productRepo,
		notifiers: notifiers,
		threshold: threshold,
		logger:    logg,
	}, nil
}

func (s *service) StockChanged(ctx context.Context, productIDs []uuid.UUID) {
	for _, id := range productIDs {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if products.IsNotFound(err) {
				continue
			}
			s.logger.Warn(s.logger.WithProductID(ctx, id.String()), "stock check failed: "+err.Error())
			continue
		}
		if product.Stock > s.threshold {
			continue
		}
		s.dispatch(ctx, alertFor(product, s.threshold))
	}
}

func (s *service) CheckAll(ctx context.Context) ([]Alert, error) {
	low, err := s.products.ListLowStock(ctx, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("listing low stock products: %w", err)
	}

	alerts := make([]Alert, 0, len(low))
	for i := range low {
		alert := alertFor(&low[i], s.threshold)
		alerts = append(alerts, alert)
		s.dispatch(ctx, alert)
	}
	return alerts, nil
}

// dispatch tries every notifier even when earlier ones fail, then logs the
// combined failure once.
func (s *service) dispatch(ctx context.Context, alert Alert) {
	var errs error
	for _, n := range s.notifiers {
		errs = multierr.Append(errs, n.Notify(ctx, alert))
	}
	if errs != nil {
		s.logger.Warn(s.logger.WithProductID(ctx, alert.ProductID.String()),
			"low stock alert delivery failed: "+errs.Error())
	}
}

func alertFor(product *models.Product, threshold int) Alert {
	return Alert{
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
		Threshold: threshold,
	}
}

// LogNotifier records alerts in the application log. It is the default
// channel on headless deployments.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logg}
}

func (n *LogNotifier) Notify(ctx context.Context, alert Alert) error {
	if n.logger == nil {
		return nil
	}
	ctx = n.logger.WithFields(ctx, map[string]any{
		"product_id": alert.ProductID.String(),
		"product":    alert.Name,
		"stock":      alert.Stock,
		"threshold":  alert.Threshold,
	})
	n.logger.Warn(ctx, "product stock at or below threshold")
	return nil
}
