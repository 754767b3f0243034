package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmarquez/ventapos-backend/api/controllers"
	"github.com/rmarquez/ventapos-backend/api/middleware"
	cartstore "github.com/rmarquez/ventapos-backend/internal/cart"
	"github.com/rmarquez/ventapos-backend/internal/clients"
	"github.com/rmarquez/ventapos-backend/internal/company"
	"github.com/rmarquez/ventapos-backend/internal/lookups"
	"github.com/rmarquez/ventapos-backend/internal/notifications"
	"github.com/rmarquez/ventapos-backend/internal/products"
	"github.com/rmarquez/ventapos-backend/internal/receipts"
	"github.com/rmarquez/ventapos-backend/internal/sales"
	"github.com/rmarquez/ventapos-backend/pkg/config"
	"github.com/rmarquez/ventapos-backend/pkg/db"
	"github.com/rmarquez/ventapos-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cart *cartstore.Store,
	saleService sales.Service,
	receiptService receipts.Service,
	notificationService notifications.Service,
	productRepo products.Repository,
	clientRepo clients.Repository,
	lookupRepo lookups.Repository,
	companyRepo company.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cart, logg))
			r.Post("/items", controllers.CartAdd(cart, productRepo, logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cart, logg))
			r.Delete("/", controllers.CartClear(cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(saleService, cart, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(saleService, logg))
			r.Get("/{saleId}", controllers.SaleDetail(saleService, logg))
			r.Get("/{saleId}/receipt", controllers.ReceiptFetch(receiptService, logg))
			r.Post("/{saleId}/receipt/export", controllers.ReceiptExport(receiptService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(productRepo, logg))
			r.Post("/", controllers.ProductCreate(productRepo, logg))
			r.Get("/{productId}", controllers.ProductDetail(productRepo, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(productRepo, logg))
			r.Delete("/{productId}", controllers.ProductDelete(productRepo, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientsList(clientRepo, logg))
			r.Post("/", controllers.ClientCreate(clientRepo, logg))
			r.Get("/{clientId}", controllers.ClientDetail(clientRepo, logg))
			r.Patch("/{clientId}", controllers.ClientUpdate(clientRepo, logg))
		})

		r.Route("/sale-types", func(r chi.Router) {
			r.Get("/", controllers.SaleTypesList(lookupRepo, logg))
			r.Post("/", controllers.SaleTypeCreate(lookupRepo, logg))
		})
		r.Route("/couriers", func(r chi.Router) {
			r.Get("/", controllers.CouriersList(lookupRepo, logg))
			r.Post("/", controllers.CourierCreate(lookupRepo, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoriesList(lookupRepo, logg))
			r.Post("/", controllers.CategoryCreate(lookupRepo, logg))
		})

		r.Route("/company", func(r chi.Router) {
			r.Get("/", controllers.CompanyProfile(companyRepo, logg))
			r.Put("/", controllers.CompanyUpdate(companyRepo, logg))
		})

		r.Get("/inventory/low-stock", controllers.InventoryLowStock(notificationService, logg))
	})

	return r
}
